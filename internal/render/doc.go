// Package render turns a declaration tree into text lines for one dialect.
//
// Назначение: детерминированный вывод дерева: группы, сортировка, перенос параметров, пустые строки.
// Не делает: IO, разбора выходного текста.
// Зависимости: internal/decl.
package render
