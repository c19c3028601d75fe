package config

// WasExplicitlySet checks if a flag was explicitly set by the user
func WasExplicitlySet(flags map[string]bool, flagName string) bool {
	if flags == nil {
		return false
	}
	return flags[flagName]
}

// Merge returns override when flagName was explicitly set, base otherwise
func Merge[T any](base, override T, flagName string, flags map[string]bool) T {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeSlice is Merge for slices; an empty override keeps base
func MergeSlice[T any](base, override []T, flagName string, flags map[string]bool) []T {
	if WasExplicitlySet(flags, flagName) && len(override) > 0 {
		return override
	}
	return base
}
