package pool

import "sync"

// Buffer sizes for the two pooled workloads: line scanning of summary logs and
// encoding of the combined-series cache.
const (
	ScanBufferDefaultSize     = 1024 * 64       // 64KiB, fits several hundred columns per line
	ScanBufferMaxThreshold    = 1024 * 1024     // 1MiB
	EncodeBufferDefaultSize   = 1024 * 256      // 256KiB
	EncodeBufferMaxThreshold  = 1024 * 1024 * 8 // 8MiB
	encodeGrowSmallBufferStep = EncodeBufferDefaultSize

	// MaxLineSize bounds one line of a summary log, cache or block file. Scan
	// buffers grow past ScanBufferMaxThreshold up to this size but are then
	// dropped instead of pooled.
	MaxLineSize = 1024 * 1024 * 16 // 16MiB
)

// ByteBuffer is a growable byte slice that can be returned to a pool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow ensures room for requiredBytes more bytes.
//
// Small buffers grow by a fixed step; buffers past four steps grow by 25% of
// their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := encodeGrowSmallBufferStep
	if cap(bb.B) > 4*encodeGrowSmallBufferStep {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteString appends s to the buffer.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// WriteByte appends c to the buffer.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// ByteBufferPool is a sync.Pool of ByteBuffers that drops buffers grown past
// maxThreshold instead of retaining them.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose new buffers have defaultSize capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && bb.Cap() > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	scanPool   = NewByteBufferPool(ScanBufferDefaultSize, ScanBufferMaxThreshold)
	encodePool = NewByteBufferPool(EncodeBufferDefaultSize, EncodeBufferMaxThreshold)
)

// GetScanBuffer retrieves a buffer used as a line scanner's initial buffer.
func GetScanBuffer() *ByteBuffer {
	return scanPool.Get()
}

// PutScanBuffer returns a scan buffer to its pool.
func PutScanBuffer(bb *ByteBuffer) {
	scanPool.Put(bb)
}

// GetEncodeBuffer retrieves a buffer for encoding a cache file.
func GetEncodeBuffer() *ByteBuffer {
	return encodePool.Get()
}

// PutEncodeBuffer returns an encode buffer to its pool.
func PutEncodeBuffer(bb *ByteBuffer) {
	encodePool.Put(bb)
}
