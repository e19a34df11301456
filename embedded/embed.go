// Package embedded содержит встроенные ресурсы приложения.
// Иконки генерируются scripts/generate_icons.go.
package embedded

import (
	_ "embed"
)

// IconIdle - иконка без активной команды (серая).
//
//go:embed icon_idle.png
var IconIdle []byte

// IconArmed - иконка при активной команде (зелёная).
//
//go:embed icon_armed.png
var IconArmed []byte

// IconRecording - иконка во время записи (красная).
//
//go:embed icon_recording.png
var IconRecording []byte
