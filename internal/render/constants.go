package render

import "time"

// Card image geometry in CSS pixels
const (
	DefaultWidth  = 320
	DefaultHeight = 480
)

// Renderer defaults
const (
	DefaultTimeout   = 15 * time.Second
	DefaultCacheSize = 256

	// settleDelay gives web fonts and the background image a moment to paint
	settleDelay = 150 * time.Millisecond

	cardSelector = "#card"
	templateName = "card.html"
)

// Rarity frame colours, also used for Discord embeds
const (
	ColorCommon    = 0x9E9E9E
	ColorUncommon  = 0x4CAF50
	ColorRare      = 0x2196F3
	ColorEpic      = 0x9C27B0
	ColorLegendary = 0xFFC107
)

// Log and error messages
const (
	LogMsgRendered       = "Card rendered"
	LogMsgRenderFailed   = "Card render failed"
	LogMsgImageMissing   = "Card image unavailable, rendering without art"
	ErrMsgTemplateFailed = "failed to build card html"
	ErrMsgCaptureFailed  = "failed to capture card image"
)
