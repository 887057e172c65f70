package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"rheuma-portal/pkg/config"
)

// ValidateFile проверяет размер и MIME-тип файла по правилам контекста загрузки.
// contextName - ключ из config.UploadContexts (например, "image", "document").
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("неизвестный контекст загрузки '%s'", contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if fileHeader.Size > maxSizeBytes {
			return fmt.Errorf("размер файла (%.2f MB) превышает лимит в %d MB", float64(fileHeader.Size)/1024/1024, rules.MaxSizeMB)
		}
	}

	// Тип определяем по содержимому, а не по расширению.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("ошибка чтения файла")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("ошибка обработки файла")
	}
	buffer = buffer[:n]

	mimeType := DetectMimeType(buffer)
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return fmt.Errorf("недопустимый формат файла: %s", mimeType)
	}
	return nil
}

// DetectMimeType - http.DetectContentType, который узнаёт SVG.
func DetectMimeType(head []byte) string {
	mimeType := http.DetectContentType(head)
	if isPossibleXml(mimeType) && isSvgSignature(head) {
		return "image/svg+xml"
	}
	return mimeType
}

func isPossibleXml(mime string) bool {
	return mime == "text/plain; charset=utf-8" ||
		mime == "text/xml; charset=utf-8" ||
		mime == "application/octet-stream"
}

func isSvgSignature(buf []byte) bool {
	return len(buf) > 5 && (string(buf[:4]) == "<svg" || string(buf[:5]) == "<?xml")
}
