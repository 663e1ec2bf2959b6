package models

// ContentType combines a language variant tag with an edit-presence flag.
type ContentType string

const (
	VASansEdit ContentType = "VA_SANS_EDIT"
	VAAvecEdit ContentType = "VA_AVEC_EDIT"
	VFSansEdit ContentType = "VF_SANS_EDIT"
	VFAvecEdit ContentType = "VF_AVEC_EDIT"
	VOSansEdit ContentType = "VO_SANS_EDIT"
	VOAvecEdit ContentType = "VO_AVEC_EDIT"
)

// ContentTypes lists every value accepted by the catalog service, in display order.
var ContentTypes = []ContentType{
	VASansEdit, VAAvecEdit,
	VFSansEdit, VFAvecEdit,
	VOSansEdit, VOAvecEdit,
}

// Valid reports whether c is one of ContentTypes.
func (c ContentType) Valid() bool {
	for _, v := range ContentTypes {
		if c == v {
			return true
		}
	}
	return false
}

// SubmissionRecord is the payload of the createSourceChannel mutation.
type SubmissionRecord struct {
	YoutubeURL  string      `json:"youtubeUrl"`
	ContentType ContentType `json:"contentType"`
}
