package storage

import (
	"fmt"
	"testing"
	"time"

	"worklog/internal/dates"
)

func createBenchStorage(b *testing.B) *Storage {
	b.Helper()
	cal := dates.NewGregorian()
	store, err := New(b.TempDir(), cal)
	if err != nil {
		b.Fatalf("failed to create bench storage: %v", err)
	}
	return store
}

// benchDocument builds a document with the given number of projects, each
// carrying a handful of timed entries and a few legacy leftovers.
func benchDocument(projects int) *Document {
	doc := NewDocument()
	for i := 0; i < projects; i++ {
		name := fmt.Sprintf("project-%d", i)
		p := newProjectShell()
		p.Group = fmt.Sprintf("group-%d", i%5)
		for j := 0; j < 8; j++ {
			p.TimeLogs = append(p.TimeLogs, TimeLog{
				Date:      fmt.Sprintf("2025-06-%02d", j+1),
				StartTime: "09:00:00",
				EndTime:   "10:30:00",
				Duration:  1.5,
			})
		}
		if i%3 == 0 {
			p.Goal = 40
			p.Log = map[string]WorkEntry{"2025-05-30": {Hours: 2, Description: "carried over"}}
		}
		doc.Projects[name] = p
	}
	doc.Normalize()
	return doc
}

func BenchmarkLoad(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("projects_%d", size), func(b *testing.B) {
			store := createBenchStorage(b)
			if err := store.Save(benchDocument(size)); err != nil {
				b.Fatalf("Save failed: %v", err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.Load(); err != nil {
					b.Fatalf("Load failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkSave(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("projects_%d", size), func(b *testing.B) {
			store := createBenchStorage(b)
			doc := benchDocument(size)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := store.Save(doc); err != nil {
					b.Fatalf("Save failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	data, err := benchDocument(200).Marshal()
	if err != nil {
		b.Fatalf("Marshal failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(data)
	}
}

func BenchmarkLogWork(b *testing.B) {
	store := createBenchStorage(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.LogWork("bench", fmt.Sprintf("2025-%02d-%02d", i%12+1, i%28+1), "1.5", ""); err != nil {
			b.Fatalf("LogWork failed: %v", err)
		}
	}
}

func BenchmarkStartStopSession(b *testing.B) {
	store := createBenchStorage(b)
	now := time.Date(2025, 6, 16, 9, 0, 0, 0, time.Local)
	store.SetNowFunc(func() time.Time { return now })
	if err := store.AddProject("bench", "", nil); err != nil {
		b.Fatalf("AddProject failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.StartSession("bench"); err != nil {
			b.Fatalf("StartSession failed: %v", err)
		}
		now = now.Add(time.Minute)
		if _, _, err := store.StopSession("bench"); err != nil {
			b.Fatalf("StopSession failed: %v", err)
		}
	}
}

func BenchmarkTotals(b *testing.B) {
	doc := benchDocument(500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Totals(doc)
	}
}
