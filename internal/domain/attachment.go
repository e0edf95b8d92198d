package domain

// AttachmentRef points at a stored upload. Exactly one of Local or Remote is set.
type AttachmentRef struct {
	Local  *LocalFile
	Remote *RemoteFile
}

// LocalFile is an upload kept on the service's disk.
type LocalFile struct {
	Path        string
	FileName    string
	ContentType string
}

// RemoteFile is an upload held by the object storage provider.
type RemoteFile struct {
	URL        string
	ProviderID string
	Format     string
	SizeBytes  int64
	FileName   string
}

// FileName returns the stored file name of whichever variant is set.
func (a *AttachmentRef) FileName() string {
	switch {
	case a == nil:
		return ""
	case a.Remote != nil:
		return a.Remote.FileName
	case a.Local != nil:
		return a.Local.FileName
	}
	return ""
}

// IsLocal reports whether the reference is a local file.
func (a *AttachmentRef) IsLocal() bool {
	return a != nil && a.Local != nil
}

// IsRemote reports whether the reference is a remote object.
func (a *AttachmentRef) IsRemote() bool {
	return a != nil && a.Remote != nil
}
