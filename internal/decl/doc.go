// Package decl holds the declaration tree: namespaces (modules, classes,
// interfaces, structs, enums) and the members they own (methods, attributes,
// constants, mixins, type aliases, struct properties, arbitrary code).
//
// Nodes live in per-kind arenas owned by a Tree and are addressed by NodeID.
// A Tree has exactly one root namespace with no name and no parent; every
// other node is attached to exactly one parent namespace when it is created
// and is never removed.
//
// Creating a namespace under a parent that already holds a namespace with the
// same name and kind returns the existing node instead (see CreateNamespace).
// Members are never merged.
//
// Назначение: модель дерева деклараций, комментарии, поиск и слияние.
// Не делает: рендеринга, IO, разбора документов.
// Зависимости: internal/diag.
package decl
