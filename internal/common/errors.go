// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки хранилища
var (
	// ErrCorruptData — файл данных существует, но не парсится.
	// Фатальная ошибка: загрузка документа прерывает запуск бота,
	// чтобы не затереть данные пустой картой при первом же сохранении.
	ErrCorruptData = errors.New("файл данных повреждён и не может быть прочитан")
)

// Ошибки XP-системы
var (
	// ErrInvalidAmount — некорректное количество XP (отрицательное)
	ErrInvalidAmount = errors.New("количество XP не может быть отрицательным")
	// ErrUserNotFound — пользователь не найден в хранилище
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)
