// Package editor implements the pointer-driven interaction layer of the
// circuit editor.
//
// An Editor owns a circuit, a camera and the transient gesture state. Input
// events arrive in screen coordinates; the editor converts them through the
// camera, classifies them against the circuit's geometry and applies the
// resulting edit. Exactly one gesture is active at a time:
//
//	Idle ──primary on port──────────▶ Connecting ──up──▶ Idle
//	Idle ──primary on node──────────▶ DraggingNode ──up──▶ Idle
//	Idle ──primary on empty canvas──▶ PanningCanvas ──up──▶ Idle
//	Idle ──secondary────────────────▶ MenuOpen ──any down──▶ Idle
//
// Renderers consume the immutable View returned by Editor.View.
package editor
