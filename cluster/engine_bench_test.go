package cluster

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkCluster(b *testing.B) {
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("items=200/workers=%d", workers), func(b *testing.B) {
			tbl := randomTable(b, 1, 200, 1, 32)
			e, err := New(WithWorkers(workers))
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				if _, err := e.Cluster(context.Background(), tbl); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
