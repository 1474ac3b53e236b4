// Package mdd provides the two partitioning schemes of MDD documents.
//
// The standard scheme labels every byte of a document with one of five
// content types:
//
//	ReadOnly   [[ generated text ]]
//	Tag        <section>, </section>, <!doctype>
//	Keyword    @include
//	Comment    /* note */
//	ReadWrite  everything else
//
// The replace scheme is independent of it and marks replace regions,
// ${ ... }, with ReadWrite. Text outside replace regions is Undefined in the
// replace scheme. Both schemes run over the same buffer and own separate
// region lists; neither consults the other.
//
// Marker strings are configurable through Syntax. DefaultSyntax returns the
// markers shown above.
package mdd
