package aggregates

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	types "github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
)

// In-memory stand-ins for the gorm repos. The fake runner snapshots the store
// before each "transaction" and restores it when fn fails, which is enough to
// exercise the rollback-sensitive paths without a live database.

type pairKey struct{ book, right uuid.UUID }

type ratingKey struct{ book, user uuid.UUID }

type fakeStore struct {
	books          map[uuid.UUID]types.Book
	authors        map[uuid.UUID]struct{}
	categories     map[uuid.UUID]struct{}
	ratings        map[ratingKey]int
	bookAuthors    map[pairKey]struct{}
	bookCategories map[pairKey]struct{}

	lockedBooks []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:          map[uuid.UUID]types.Book{},
		authors:        map[uuid.UUID]struct{}{},
		categories:     map[uuid.UUID]struct{}{},
		ratings:        map[ratingKey]int{},
		bookAuthors:    map[pairKey]struct{}{},
		bookCategories: map[pairKey]struct{}{},
	}
}

func (s *fakeStore) addBook(avg float64, count int) uuid.UUID {
	id := uuid.New()
	s.books[id] = types.Book{ID: id, Title: "t", AvgRating: avg, RateCount: count}
	return id
}

func (s *fakeStore) addAuthor() uuid.UUID {
	id := uuid.New()
	s.authors[id] = struct{}{}
	return id
}

func (s *fakeStore) addCategory() uuid.UUID {
	id := uuid.New()
	s.categories[id] = struct{}{}
	return id
}

func (s *fakeStore) snapshot() *fakeStore {
	out := newFakeStore()
	for k, v := range s.books {
		out.books[k] = v
	}
	for k := range s.authors {
		out.authors[k] = struct{}{}
	}
	for k := range s.categories {
		out.categories[k] = struct{}{}
	}
	for k, v := range s.ratings {
		out.ratings[k] = v
	}
	for k := range s.bookAuthors {
		out.bookAuthors[k] = struct{}{}
	}
	for k := range s.bookCategories {
		out.bookCategories[k] = struct{}{}
	}
	out.lockedBooks = append([]uuid.UUID(nil), s.lockedBooks...)
	return out
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.books = snap.books
	s.authors = snap.authors
	s.categories = snap.categories
	s.ratings = snap.ratings
	s.bookAuthors = snap.bookAuthors
	s.bookCategories = snap.bookCategories
	s.lockedBooks = snap.lockedBooks
}

type fakeRunner struct {
	store *fakeStore
}

func (r *fakeRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	snap := r.store.snapshot()
	if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

type fakeBooks struct {
	catalogrepo.BookRepo
	store *fakeStore
}

func (f *fakeBooks) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Book, error) {
	row, ok := f.store.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	f.store.lockedBooks = append(f.store.lockedBooks, id)
	out := row
	return &out, nil
}

func (f *fakeBooks) UpdateAggregate(dbc dbctx.Context, id uuid.UUID, avgRating float64, rateCount int) error {
	row, ok := f.store.books[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.AvgRating = avgRating
	row.RateCount = rateCount
	f.store.books[id] = row
	return nil
}

func (f *fakeBooks) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.store.books[id]; !ok {
		return 0, nil
	}
	delete(f.store.books, id)
	return 1, nil
}

type fakeRatings struct {
	catalogrepo.BookRatingRepo
	store *fakeStore
}

func (f *fakeRatings) GetByBookAndUser(dbc dbctx.Context, bookID, userID uuid.UUID) (*types.BookRating, error) {
	v, ok := f.store.ratings[ratingKey{bookID, userID}]
	if !ok {
		return nil, nil
	}
	return &types.BookRating{BookID: bookID, UserID: userID, Value: v}, nil
}

func (f *fakeRatings) Create(dbc dbctx.Context, row *types.BookRating) error {
	k := ratingKey{row.BookID, row.UserID}
	if _, ok := f.store.ratings[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.store.ratings[k] = row.Value
	return nil
}

func (f *fakeRatings) UpdateValue(dbc dbctx.Context, bookID, userID uuid.UUID, value int) error {
	f.store.ratings[ratingKey{bookID, userID}] = value
	return nil
}

func (f *fakeRatings) DeleteByBookID(dbc dbctx.Context, bookID uuid.UUID) (int64, error) {
	var n int64
	for k := range f.store.ratings {
		if k.book == bookID {
			delete(f.store.ratings, k)
			n++
		}
	}
	return n, nil
}

type fakeRelations struct {
	store *fakeStore
	// rows reads through to the store on every call so the fake keeps working
	// after restore swaps the underlying maps.
	rows func() map[pairKey]struct{}
	// rightExists reports whether the non-book endpoint row is present, which
	// stands in for the foreign key constraint.
	rightExists func(id uuid.UUID) bool
}

func newFakeBookAuthors(store *fakeStore) *fakeRelations {
	return &fakeRelations{
		store: store,
		rows:  func() map[pairKey]struct{} { return store.bookAuthors },
		rightExists: func(id uuid.UUID) bool {
			_, ok := store.authors[id]
			return ok
		},
	}
}

func newFakeBookCategories(store *fakeStore) *fakeRelations {
	return &fakeRelations{
		store: store,
		rows:  func() map[pairKey]struct{} { return store.bookCategories },
		rightExists: func(id uuid.UUID) bool {
			_, ok := store.categories[id]
			return ok
		},
	}
}

func (f *fakeRelations) Insert(dbc dbctx.Context, bookID, rightID uuid.UUID) error {
	if _, ok := f.store.books[bookID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if !f.rightExists(rightID) {
		return gorm.ErrForeignKeyViolated
	}
	k := pairKey{bookID, rightID}
	if _, ok := f.rows()[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.rows()[k] = struct{}{}
	return nil
}

func (f *fakeRelations) InsertMany(dbc dbctx.Context, bookID uuid.UUID, rightIDs []uuid.UUID) error {
	for _, id := range rightIDs {
		if err := f.Insert(dbc, bookID, id); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRelations) Delete(dbc dbctx.Context, bookID, rightID uuid.UUID) (int64, error) {
	k := pairKey{bookID, rightID}
	if _, ok := f.rows()[k]; !ok {
		return 0, nil
	}
	delete(f.rows(), k)
	return 1, nil
}

func (f *fakeRelations) DeleteByBookID(dbc dbctx.Context, bookID uuid.UUID) (int64, error) {
	var n int64
	rows := f.rows()
	for k := range rows {
		if k.book == bookID {
			delete(rows, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeRelations) DeleteByRightID(dbc dbctx.Context, rightID uuid.UUID) (int64, error) {
	var n int64
	rows := f.rows()
	for k := range rows {
		if k.right == rightID {
			delete(rows, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeRelations) ListRightIDs(dbc dbctx.Context, bookID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for k := range f.rows() {
		if k.book == bookID {
			out = append(out, k.right)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

type fakeAuthors struct {
	catalogrepo.AuthorRepo
	store *fakeStore
}

func (f *fakeAuthors) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.store.authors[id]; !ok {
		return 0, nil
	}
	delete(f.store.authors, id)
	return 1, nil
}

type fakeCategories struct {
	catalogrepo.CategoryRepo
	store *fakeStore
}

func (f *fakeCategories) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.store.categories[id]; !ok {
		return 0, nil
	}
	delete(f.store.categories, id)
	return 1, nil
}

func baseDepsForStore(store *fakeStore) BaseDeps {
	return BaseDeps{Runner: &fakeRunner{store: store}}
}
