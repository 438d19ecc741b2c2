// Package program models a question's functional program as an immutable,
// index-addressed DAG.
//
// Node 0 is always the scene root. Every input of node i references a node
// with a smaller index, so the slice order is already a topological order.
// Each node's type tag is classified into a Class once at parse time, which
// lets traversals dispatch on categories instead of re-matching strings.
package program
