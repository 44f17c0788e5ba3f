// Package widgets contains stateless render primitives shared by the shell
// and the page providers.
//
// Nothing here handles keys or owns application state.
package widgets
