// Package builtin registers the fixed operation catalog: timeline edits
// (trim, cut, speed, concat), video filters (scale, rotate, blur, set_fps),
// audio filters (change_volume, audio_mix, audio_resample), transitions
// (fade, crossfade), and graphics (overlay). Each operation contributes
// one contract and one compile rule via init().
package builtin

func floatPtr(f float64) *float64 {
	return &f
}

// optional marks a -map stream specifier as optional, so inputs without
// that stream kind do not fail the invocation
func optional(stream string) string {
	return stream + "?"
}
