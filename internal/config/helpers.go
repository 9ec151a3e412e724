package config

// IsValidLocationProvider checks to see if s names a location provider.
func IsValidLocationProvider(s string) bool {
	switch s {
	case
		"",
		LocationNone,
		LocationStatic,
		LocationHTTP:
		return true
	}
	return false
}

// IsValidCameraProvider checks to see if s names a camera provider.
func IsValidCameraProvider(s string) bool {
	switch s {
	case
		"",
		CameraNone,
		CameraFile,
		CameraCommand:
		return true
	}
	return false
}

// HasCamera checks to see if the provider captures snapshots.
func HasCamera(s string) bool {
	switch s {
	case
		CameraFile,
		CameraCommand:
		return true
	}
	return false
}
