package overlay

import (
	"strings"

	"github.com/ovlmount/ovlmount/pkg/accessor"
)

// specialFiles lists OS-metadata filenames that should live in the overlay
// rather than the base, mirroring the macOS Finder/Spotlight sidecar files
// the original opendal-mount source special-cased in overlay/policy/os_files.rs.
var specialFiles = map[string]bool{
	".DS_Store":        true,
	".Spotlight-V100":  true,
	".VolumeIcon.icns": true,
	".Trash":           true,
	".Trashes":         true,
	".fseventsd":       true,
}

var specialPrefixes = []string{"._"}

// IsSpecialFile reports whether name matches the fixed allow-list or one of
// the special prefixes (AppleDouble sidecar files).
func IsSpecialFile(name string) bool {
	if specialFiles[name] {
		return true
	}
	for _, prefix := range specialPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// SpecialFilesPolicy routes OS-metadata sidecar files to the overlay and
// everything else to the base.
type SpecialFilesPolicy struct{}

func (SpecialFilesPolicy) Name() string { return "special_files" }

func (SpecialFilesPolicy) Owner(path string, op Operation, baseInfo, overlayInfo accessor.Info) Source {
	if IsSpecialFile(baseName(path)) {
		return Overlay
	}
	return Base
}

func (SpecialFilesPolicy) Capability(baseInfo, overlayInfo accessor.Info) accessor.Capability {
	return baseInfo.Capabilities | overlayInfo.Capabilities
}

func (SpecialFilesPolicy) Merge(basePage, overlayPage []accessor.Entry) []accessor.Entry {
	if len(overlayPage) == 0 {
		return basePage
	}
	return dedupeByName(overlayPage, basePage)
}
