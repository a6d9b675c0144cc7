// Package construct resolves default instances of arbitrary types.
//
// A Resolver holds an ordered list of rules. For a requested type the rules
// are consulted newest first and the first one that recognizes the type
// provides a factory. Factories are memoized per type so every call returns
// a fresh instance without repeating the search. Types no rule recognizes
// yield an *UnresolvedTypeError, which is memoized as well.
//
// Built-in rules cover plain values (with an optional SetDefaults hook),
// pointers, slices, maps, sets, iter.Seq and iter.Seq2 views and channels.
// Interface types resolve only through Bind:
//
//	r := construct.NewResolver()
//	construct.Bind[io.Writer, *bytes.Buffer](r)
//	w, err := construct.New[io.Writer](r)
//
// Custom constructors override the built-ins:
//
//	construct.RegisterFunc(r, func() Settings { return Settings{Limit: 20} })
package construct
