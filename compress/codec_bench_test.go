package compress

import (
	"fmt"
	"testing"

	"github.com/Tan-0321/HOSHI-WorkFlow/format"
)

func BenchmarkAllCodecs_Compress(b *testing.B) {
	rows := []int{100, 1000, 10000}

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, n := range rows {
				data := cacheText(n)
				b.Run(fmt.Sprintf("%drows", n), func(b *testing.B) {
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))

					for b.Loop() {
						if _, err := codec.Compress(data); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

func BenchmarkAllCodecs_Decompress(b *testing.B) {
	rows := []int{100, 1000, 10000}

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, n := range rows {
				data := cacheText(n)
				compressed, err := codec.Compress(data)
				if err != nil {
					b.Fatal(err)
				}

				b.Run(fmt.Sprintf("%drows", n), func(b *testing.B) {
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))

					for b.Loop() {
						if _, err := codec.Decompress(compressed); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

func BenchmarkAllCodecs_CompressionRatio(b *testing.B) {
	data := cacheText(10000)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		b.Run(ct.String(), func(b *testing.B) {
			var stats CompressionStats
			for b.Loop() {
				var err error
				if _, stats, err = CompressWithStats(ct, data); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(stats.CompressionRatio(), "ratio")
		})
	}
}

func BenchmarkZstdDecompress_Parallel(b *testing.B) {
	codec := NewZstdCompressor()
	compressed, err := codec.Compress(cacheText(1000))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = codec.Decompress(compressed)
		}
	})
}
