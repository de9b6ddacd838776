package models

// Image is a persisted recipe image record.
type Image struct {
	ImageID      string `json:"imagemId"`
	OriginalName string `json:"nomeOriginal"`
	SizeBytes    int64  `json:"tamanhoBytes"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Description  string `json:"descricao,omitempty"`
	IsPrincipal  bool   `json:"ehPrincipal"`
	DisplayOrder int    `json:"ordemExibicao"`
}

// ImageConfig is the server-reported upload policy. Any zero field falls back
// to the client defaults in the upload service.
type ImageConfig struct {
	MaxFileSize        int64    `json:"maxFileSize"`
	AllowedExtensions  []string `json:"allowedExtensions"`
	MaxImagesPerRecipe int      `json:"maxImagensPerReceita"`
}

// ImageStats summarizes a recipe's image collection.
type ImageStats struct {
	TotalImages  int   `json:"totalImagens"`
	TotalBytes   int64 `json:"tamanhoTotalBytes"`
	HasPrincipal bool  `json:"possuiPrincipal"`
}

// FileMeta is the subset of file information the upload policy checks need.
// It is separated from the filesystem so validation can run on in-memory data.
// MIME is the sniffed content type; empty means the content was not sniffed
// and only name and size are checked.
type FileMeta struct {
	Name string
	Size int64
	MIME string
}

// UploadDescriptor describes one pending upload. It exists only client-side
// until a successful upload yields an Image record.
type UploadDescriptor struct {
	Path         string
	Description  string
	IsPrincipal  bool
	DisplayOrder int
}

// UploadProgress reports how much of an upload body has been sent.
type UploadProgress struct {
	Loaded     int64
	Total      int64
	Percentage int
}

// ValidationResult carries the outcome of upload policy checks. Failures are
// data for the caller to render, not errors.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}
