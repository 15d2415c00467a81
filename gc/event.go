// ABOUTME: Event values describing single edits to the shadow graph
// ABOUTME: Produced by handles, consumed by the collector's drain loop

package gc

// eventKind discriminates shadow graph edits.
type eventKind uint8

const (
	eventAddRoot eventKind = iota
	eventRemoveRoot
	eventConnect
	eventDisconnect
)

// event is one atomic edit to the collector's shadow of the object
// graph. b is used only by the edge events.
type event struct {
	kind eventKind
	a, b Collectable
}
