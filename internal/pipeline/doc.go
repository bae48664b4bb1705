// Package pipeline связывает документы, дерево деклараций и рендер.
//
// Назначение:
//   - параллельная загрузка документов (без доступа к дереву);
//   - последовательная сборка одного дерева в порядке аргументов;
//   - lint и параллельный рендер каждого диалекта по готовому дереву;
//   - кэш отрендеренных файлов и события прогресса для UI.
//
// Зависимости: schema, decl, lint, render, cache, observ, errgroup.
package pipeline
