package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/ranqr/internal/adapters/repository"
	"github.com/okian/ranqr/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestCollectionLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemStore(repository.WithIDGenerator(sequentialIDs()))

		Convey("When a collection is created", func() {
			coll, err := store.CreateCollection(ctx, "  albums  ")

			Convey("Then it gets an id and a trimmed name", func() {
				So(err, ShouldBeNil)
				So(coll.ID, ShouldEqual, "id-1")
				So(coll.Name, ShouldEqual, "albums")
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("And it shows up in the listing with its item count", func() {
				_, err := store.AddItem(ctx, coll.ID, "one", "")
				So(err, ShouldBeNil)

				list, err := store.ListCollections(ctx)
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 1)
				So(list[0].ItemCount, ShouldEqual, 1)
			})

			Convey("And deleting it cascades everything away", func() {
				So(store.DeleteCollection(ctx, coll.ID), ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 0)

				_, err := store.Snapshot(ctx, coll.ID)
				So(errors.Is(err, repository.ErrCollectionNotFound), ShouldBeTrue)
			})
		})

		Convey("When the name is blank", func() {
			_, err := store.CreateCollection(ctx, "   ")

			Convey("Then creation is rejected", func() {
				So(errors.Is(err, repository.ErrEmptyName), ShouldBeTrue)
			})
		})

		Convey("When deleting an unknown collection", func() {
			err := store.DeleteCollection(ctx, "nope")

			Convey("Then the sentinel error is returned", func() {
				So(errors.Is(err, repository.ErrCollectionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestItems(t *testing.T) {
	ctx := context.Background()

	Convey("Given a collection", t, func() {
		store := repository.NewMemStore(repository.WithIDGenerator(sequentialIDs()))
		coll, err := store.CreateCollection(ctx, "movies")
		So(err, ShouldBeNil)

		Convey("When items are added", func() {
			first, err := store.AddItem(ctx, coll.ID, "alien", "")
			So(err, ShouldBeNil)
			second, err := store.AddItem(ctx, coll.ID, "blade runner", "")
			So(err, ShouldBeNil)

			Convey("Then they start at zero score and zero comparisons", func() {
				So(first.Score, ShouldEqual, 0)
				So(first.Comparisons, ShouldEqual, 0)
			})

			Convey("And snapshots preserve insertion order", func() {
				snap, err := store.Snapshot(ctx, coll.ID)
				So(err, ShouldBeNil)
				So(len(snap.Items), ShouldEqual, 2)
				So(snap.Items[0].ID, ShouldEqual, first.ID)
				So(snap.Items[1].ID, ShouldEqual, second.ID)
			})

			Convey("And an item can be renamed and given a media link", func() {
				label := "aliens"
				link := "https://example.com/clip"
				updated, err := store.UpdateItem(ctx, coll.ID, first.ID, repository.ItemUpdate{
					Label:     &label,
					MediaLink: &link,
				})
				So(err, ShouldBeNil)
				So(updated.Label, ShouldEqual, "aliens")
				So(updated.MediaLink, ShouldEqual, link)
			})

			Convey("And renaming to a blank label is rejected", func() {
				blank := "  "
				_, err := store.UpdateItem(ctx, coll.ID, first.ID, repository.ItemUpdate{Label: &blank})
				So(errors.Is(err, repository.ErrEmptyLabel), ShouldBeTrue)
			})
		})

		Convey("When the label is blank", func() {
			_, err := store.AddItem(ctx, coll.ID, "\t", "")

			Convey("Then the add is rejected", func() {
				So(errors.Is(err, repository.ErrEmptyLabel), ShouldBeTrue)
			})
		})

		Convey("When the collection id is unknown", func() {
			_, err := store.AddItem(ctx, "nope", "label", "")

			Convey("Then the sentinel error is returned", func() {
				So(errors.Is(err, repository.ErrCollectionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestRecordOutcome(t *testing.T) {
	ctx := context.Background()

	Convey("Given a collection with two items", t, func() {
		store := repository.NewMemStore(repository.WithIDGenerator(sequentialIDs()))
		coll, err := store.CreateCollection(ctx, "books")
		So(err, ShouldBeNil)
		a, err := store.AddItem(ctx, coll.ID, "dune", "")
		So(err, ShouldBeNil)
		b, err := store.AddItem(ctx, coll.ID, "hyperion", "")
		So(err, ShouldBeNil)

		Convey("When a win is recorded", func() {
			cmp, err := store.RecordOutcome(ctx, coll.ID, a.ID, b.ID, model.AWins, 1, -1)

			Convey("Then scores, counts, and the log all move together", func() {
				So(err, ShouldBeNil)
				So(cmp.Seq, ShouldEqual, 1)

				snap, err := store.Snapshot(ctx, coll.ID)
				So(err, ShouldBeNil)
				So(snap.Items[0].Score, ShouldEqual, 1)
				So(snap.Items[0].Comparisons, ShouldEqual, 1)
				So(snap.Items[1].Score, ShouldEqual, -1)
				So(snap.Items[1].Comparisons, ShouldEqual, 1)
				So(snap.ComparisonCount, ShouldEqual, 1)
				So(snap.SeenPairs[model.PairKey(a.ID, b.ID)], ShouldEqual, 1)
			})
		})

		Convey("When the pair is submitted in reverse order", func() {
			_, err := store.RecordOutcome(ctx, coll.ID, b.ID, a.ID, model.AWins, 1, -1)
			So(err, ShouldBeNil)

			Convey("Then the stored comparison is canonical and meaning is preserved", func() {
				log, err := store.Comparisons(ctx, coll.ID)
				So(err, ShouldBeNil)
				So(log[0].ItemA, ShouldBeLessThan, log[0].ItemB)
				// b won, so under canonical (a, b) order the outcome flips.
				So(log[0].Outcome, ShouldEqual, model.BWins)

				snap, _ := store.Snapshot(ctx, coll.ID)
				So(snap.Items[0].Score, ShouldEqual, -1)
				So(snap.Items[1].Score, ShouldEqual, 1)
			})
		})

		Convey("When validation fails", func() {
			cases := []struct {
				name string
				call func() error
				want error
			}{
				{"self comparison", func() error {
					_, err := store.RecordOutcome(ctx, coll.ID, a.ID, a.ID, model.AWins, 1, -1)
					return err
				}, repository.ErrInvalidPair},
				{"unknown item", func() error {
					_, err := store.RecordOutcome(ctx, coll.ID, a.ID, "ghost", model.AWins, 1, -1)
					return err
				}, repository.ErrItemNotFound},
				{"unknown outcome", func() error {
					_, err := store.RecordOutcome(ctx, coll.ID, a.ID, b.ID, model.Outcome(9), 0, 0)
					return err
				}, repository.ErrInvalidOutcome},
				{"unknown collection", func() error {
					_, err := store.RecordOutcome(ctx, "nope", a.ID, b.ID, model.AWins, 1, -1)
					return err
				}, repository.ErrCollectionNotFound},
			}

			for _, tc := range cases {
				Convey("Then "+tc.name+" is rejected without mutating state", func() {
					So(errors.Is(tc.call(), tc.want), ShouldBeTrue)

					snap, err := store.Snapshot(ctx, coll.ID)
					So(err, ShouldBeNil)
					So(snap.ComparisonCount, ShouldEqual, 0)
					So(snap.Items[0].Score, ShouldEqual, 0)
					So(snap.Items[0].Comparisons, ShouldEqual, 0)
					So(snap.Items[1].Score, ShouldEqual, 0)
					So(snap.Items[1].Comparisons, ShouldEqual, 0)
				})
			}
		})
	})
}

func TestRecordOutcomeConcurrency(t *testing.T) {
	ctx := context.Background()

	Convey("Given many goroutines recording into one collection", t, func() {
		store := repository.NewMemStore()
		coll, err := store.CreateCollection(ctx, "stress")
		So(err, ShouldBeNil)
		a, err := store.AddItem(ctx, coll.ID, "left", "")
		So(err, ShouldBeNil)
		b, err := store.AddItem(ctx, coll.ID, "right", "")
		So(err, ShouldBeNil)

		const writers = 8
		const perWriter = 50

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					outcome := model.AWins
					dA, dB := 1, -1
					if (w+i)%2 == 1 {
						outcome = model.BWins
						dA, dB = -1, 1
					}
					_, _ = store.RecordOutcome(ctx, coll.ID, a.ID, b.ID, outcome, dA, dB)
				}
			}(w)
		}
		wg.Wait()

		Convey("Then counts and the log agree and sequence numbers are unique", func() {
			snap, err := store.Snapshot(ctx, coll.ID)
			So(err, ShouldBeNil)
			So(snap.ComparisonCount, ShouldEqual, writers*perWriter)
			So(snap.Items[0].Comparisons, ShouldEqual, writers*perWriter)
			So(snap.Items[1].Comparisons, ShouldEqual, writers*perWriter)

			log, err := store.Comparisons(ctx, coll.ID)
			So(err, ShouldBeNil)
			seen := make(map[uint64]bool, len(log))
			for _, cmp := range log {
				So(seen[cmp.Seq], ShouldBeFalse)
				seen[cmp.Seq] = true
			}
		})
	})
}

func TestWithClock(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with a fixed clock", t, func() {
		fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		store := repository.NewMemStore(repository.WithClock(func() time.Time { return fixed }))

		Convey("Then creation timestamps come from it", func() {
			coll, err := store.CreateCollection(ctx, "timed")
			So(err, ShouldBeNil)
			So(coll.CreatedAt.Equal(fixed), ShouldBeTrue)
		})
	})
}
