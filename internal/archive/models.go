package archive

import "time"

type CompressRequest struct {
	Output      string   `json:"output" yaml:"output"`
	Paths       []string `json:"paths" yaml:"paths"`
	Encoding    string   `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Compression string   `json:"compression,omitempty" yaml:"compression,omitempty"`
	Encryption  string   `json:"encryption,omitempty" yaml:"encryption,omitempty"`
	Password    string   `json:"password,omitempty" yaml:"password,omitempty"`
	RootPath    *string  `json:"root_path,omitempty" yaml:"root_path,omitempty"`
}

type ExtractRequest struct {
	Archive             string `json:"archive"`
	Destination         string `json:"destination"`
	Password            string `json:"password,omitempty"`
	Encoding            string `json:"encoding,omitempty"`
	AutoCreateDirectory *bool  `json:"auto_create_directory,omitempty"`
}

type ListRequest struct {
	Archive  string `json:"archive"`
	Encoding string `json:"encoding,omitempty"`
}

type Result struct {
	OperationID string        `json:"operation_id"`
	Path        string        `json:"path"`
	Entries     int           `json:"entries"`
	Duration    time.Duration `json:"duration_ns"`
}

type EntryInfo struct {
	Name             string    `json:"name"`
	IsDirectory      bool      `json:"is_directory"`
	Encrypted        bool      `json:"encrypted"`
	Method           string    `json:"method"`
	CompressedSize   uint64    `json:"compressed_size"`
	UncompressedSize uint64    `json:"uncompressed_size"`
	ModTime          time.Time `json:"mod_time"`
}

type ListResult struct {
	OperationID string      `json:"operation_id"`
	Archive     string      `json:"archive"`
	Encrypted   bool        `json:"encrypted"`
	Entries     []EntryInfo `json:"entries"`
}

type ProgressWriter interface {
	WriteMessage(msgType string, data string)
	WriteError(data string)
	WriteStdout(data string)
}

type discardProgress struct{}

func (discardProgress) WriteMessage(string, string) {}
func (discardProgress) WriteError(string)           {}
func (discardProgress) WriteStdout(string)          {}

// DiscardProgress drops every message.
var DiscardProgress ProgressWriter = discardProgress{}
