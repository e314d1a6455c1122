// Package filestore — файловая реализация storage.Document.
// Драйвер по умолчанию: JSON-файлы в каталоге DATA_DIR,
// совместимые по формату с xp_data.json / badge_stats.json / badges_data.json.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// File хранит документ в одном файле на диске.
type File struct {
	path string
}

// New создаёт файловый документ по указанному пути.
// Файл и его каталог создаются при первом Save.
func New(path string) *File {
	return &File{path: path}
}

// Path возвращает путь к файлу документа.
func (f *File) Path() string {
	return f.path
}

// Load читает файл целиком.
// Отсутствующий файл — не ошибка: возвращается (nil, nil),
// и вызывающий стартует с пустой картой.
func (f *File) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("path", f.path).Debug("Файл данных не найден, начинаем с пустого документа")
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения %s: %w", f.path, err)
	}
	log.WithField("path", f.path).Debugf("📂 Загружен %s", filepath.Base(f.path))
	return data, nil
}

// Save перезаписывает файл целиком.
// Запись атомарная: сначала во временный файл в том же каталоге,
// затем rename. Упавшая запись не портит предыдущую версию документа.
func (f *File) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("ошибка создания каталога %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка записи временного файла: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия временного файла: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("ошибка переименования %s: %w", tmpPath, err)
	}
	committed = true

	log.WithField("path", f.path).Debugf("💾 Сохранён %s", filepath.Base(f.path))
	return nil
}
