package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	PathPrefix       string
}

const DefaultUploadContext = "image"

// SVG не принимаем: /uploads отдаётся с того же origin, что и админка, а SVG исполняет скрипты.
var imageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var UploadContexts = map[string]UploadConfig{
	// Обложки новостей, фото центров
	"image": {
		AllowedMimeTypes: imageMimeTypes,
		MaxSizeMB:        10,
		PathPrefix:       "images",
	},
	// Фото сотрудников и главных ревматологов
	"photo": {
		AllowedMimeTypes: imageMimeTypes,
		MaxSizeMB:        5,
		PathPrefix:       "photos",
	},
	"logo": {
		AllowedMimeTypes: imageMimeTypes,
		MaxSizeMB:        2,
		PathPrefix:       "logos",
	},
	// Устав, документы по заболеваниям
	"document": {
		AllowedMimeTypes: []string{
			"application/pdf", "application/zip", "image/jpeg", "image/png",
		},
		MaxSizeMB:  25,
		PathPrefix: "documents",
	},
}
