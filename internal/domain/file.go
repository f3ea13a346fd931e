package domain

import (
	"errors"
	"path"
	"strings"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// Маппинг расширений выгружаемых файлов на MIME типы
var extToContentType = map[string]string{
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// ContentTypeFromFileName определяет MIME тип результата экспорта по имени файла
func ContentTypeFromFileName(fileName string) (string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	ct, ok := extToContentType[ext]
	if !ok {
		return "", ErrUnsupportedFileType
	}
	return ct, nil
}
