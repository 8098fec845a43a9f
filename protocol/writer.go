package protocol

import "io"

// ChunkWriter splits writes into pieces no larger than the transport's
// per-call transfer size
type ChunkWriter struct {
	w   io.Writer
	max int
}

// NewChunkWriter wraps w, limiting every underlying Write to max bytes
func NewChunkWriter(w io.Writer, max int) *ChunkWriter {
	if max <= 0 {
		max = MaxPacketSize
	}
	return &ChunkWriter{w: w, max: max}
}

// Write forwards p in chunks. A short underlying write is retried from where
// it stopped; a zero-byte write ends with io.ErrShortWrite.
func (c *ChunkWriter) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		end := written + c.max
		if end > len(p) {
			end = len(p)
		}
		n, err := c.w.Write(p[written:end])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}
