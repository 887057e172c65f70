// pkg/filestorage/local_filestorage.go

package filestorage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// URLPrefix - префикс, под которым echo раздаёт каталог загрузок.
const URLPrefix = "/uploads/"

// StoredFile - файл в хранилище: публичный путь и время изменения.
type StoredFile struct {
	URL     string
	ModTime time.Time
}

type FileStorageInterface interface {
	// Save сохраняет файл и возвращает путь вида /uploads/<prefix>/2026/10/18/<uuid>.pdf.
	Save(file io.Reader, originalFileName string, prefix string) (fileURL string, err error)
	Delete(fileURL string) error
	List() ([]StoredFile, error)
}

type LocalFileStorage struct {
	basePath string
	now      func() time.Time
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию: %w", err)
	}
	return &LocalFileStorage{basePath: basePath, now: time.Now}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	now := s.now()
	ext := strings.ToLower(filepath.Ext(originalFileName))
	uniqueFileName := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.New().String(), ext)

	datePath := now.Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return "", err
	}

	return URLPrefix + path.Join(prefix, datePath, uniqueFileName), nil
}

// Delete удаляет файл по публичному пути. Отсутствующий файл - не ошибка.
func (s *LocalFileStorage) Delete(fileURL string) error {
	fullPath, err := s.resolve(fileURL)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List обходит каталог загрузок.
func (s *LocalFileStorage) List() ([]StoredFile, error) {
	var files []StoredFile
	err := filepath.WalkDir(s.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		files = append(files, StoredFile{URL: URLPrefix + filepath.ToSlash(rel), ModTime: info.ModTime()})
		return nil
	})
	return files, err
}

// resolve не выпускает путь за пределы basePath.
func (s *LocalFileStorage) resolve(fileURL string) (string, error) {
	relativePath := strings.TrimPrefix(fileURL, URLPrefix)
	cleaned := path.Clean("/" + relativePath)
	if cleaned == "/" || strings.Contains(relativePath, "..") {
		return "", fmt.Errorf("недопустимый путь файла: %s", fileURL)
	}
	return filepath.Join(s.basePath, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}
