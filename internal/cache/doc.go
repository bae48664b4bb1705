// Package cache хранит отрендеренные файлы деклараций на диске.
//
// Назначение:
//   - ключ: sha256 от набора документов (в порядке применения) и отпечатка опций рендера;
//   - значение: msgpack-запись Payload с текстом и диалектом;
//   - атомарная запись через временный файл и rename.
//
// Не делает:
//   - не вытесняет старые записи; DropAll чистит всё.
//
// Зависимости: msgpack, xdg.
package cache
