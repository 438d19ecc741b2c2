// Package target resolves the objects a question is about from its program.
//
// A Resolver applies an ordered list of filter strategies and unions their
// results. The first_nonempty strategy walks the program backwards and, when
// it meets a fork before any object set, follows each branch separately.
package target
