package dmaecho

import "github.com/rs/zerolog"

// Diagnostic records are human-readable traces only.

func logReceived(log zerolog.Logger, p *Payload) {
	log.Info().Hex("bytes", p[:]).Int("len", len(p)).Msg("received")
}

func logSent(log zerolog.Logger, buf *Buffer) {
	log.Info().Hex("bytes", buf[:]).Int("len", len(buf)).Msg("sent")
}
