// Package storage определяет контракт хранения документов.
//
// Каждый документ — это целиком сериализованная карта «ID пользователя →
// запись» (XP, счётчики активности, награды). Никакой инкрементальной
// записи нет: каждое изменение перезаписывает документ полностью.
// Объёмы данных комьюнити-бота позволяют держать всё в памяти
// и писать документ за одну операцию.
//
// Атомарности МЕЖДУ документами нет: падение между записью XP-документа
// и записью документа статистики может оставить их рассинхронизированными.
// Репозитории это документируют и не пытаются «чинить».
package storage

import "context"

// Document — один персистентный документ.
//
// Load возвращает (nil, nil), если документ ещё не существует —
// репозиторий в этом случае стартует с пустой картой.
// Save перезаписывает документ целиком.
type Document interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
