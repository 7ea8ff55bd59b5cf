package model

// EntryTypeFile is the only manifest entry type that is downloaded
const EntryTypeFile = "file"

// PackageEntry is one element of the manifest returned by the package API
type PackageEntry struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

// IsFile reports whether the entry should be downloaded
func (e PackageEntry) IsFile() bool {
	return e.Type == EntryTypeFile
}

// Manifest is the list of package entries for a mode
type Manifest []PackageEntry

// Files returns entries of type "file" in manifest order
func (m Manifest) Files() []PackageEntry {
	var files []PackageEntry
	for _, e := range m {
		if e.IsFile() {
			files = append(files, e)
		}
	}
	return files
}

// ExtraPackages holds packages fetched from a secondary location
type ExtraPackages struct {
	BaseURL string
	Files   []string
}

// Entries converts the extra packages into manifest entries
func (x ExtraPackages) Entries() []PackageEntry {
	entries := make([]PackageEntry, 0, len(x.Files))
	for _, name := range x.Files {
		entries = append(entries, PackageEntry{
			Type:        EntryTypeFile,
			Name:        name,
			DownloadURL: x.BaseURL + "/" + name,
		})
	}
	return entries
}
