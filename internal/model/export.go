package model

const (
	ExportFormatJSON     = "json"
	ExportFormatMarkdown = "md"
)

// ExportDocument is a rendered export ready to be sent as an attachment.
type ExportDocument struct {
	Filename    string
	ContentType string
	Body        []byte
}
