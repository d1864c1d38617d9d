package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/contactbook-backend/internal/data/repos"
	repotest "github.com/yungbote/contactbook-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/keylock"
	"gorm.io/gorm"
)

const (
	ann = "ann@example.com"
	bob = "bob@example.com"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	return repotest.DB(t)
}

type contactsHarness struct {
	db        *gorm.DB
	dbc       dbctx.Context
	addresses repos.AddressRepo
	phones    repos.PhoneRepo
	base      BaseDeps

	addressStore domainagg.AddressStore
	phoneStore   domainagg.PhoneStore
	summary      domainagg.PhoneSummarizer
}

func newContactsHarness(t *testing.T) *contactsHarness {
	t.Helper()
	db := openDB(t)
	log := repotest.Logger(t)
	h := &contactsHarness{
		db:        db,
		dbc:       dbctx.Context{Ctx: context.Background()},
		addresses: repos.NewAddressRepo(db, log),
		phones:    repos.NewPhoneRepo(db, log),
		base: BaseDeps{
			DB:     db,
			Log:    log,
			Runner: NewGormTxRunner(db),
			Locker: keylock.New(),
		},
	}
	h.summary = NewPhoneSummaryAggregator(PhoneSummaryDeps{Base: h.base, Addresses: h.addresses, Phones: h.phones})
	h.addressStore = NewAddressStore(AddressStoreDeps{Base: h.base, Addresses: h.addresses, Phones: h.phones})
	h.phoneStore = NewPhoneStore(PhoneStoreDeps{Base: h.base, Addresses: h.addresses, Phones: h.phones, Summary: h.summary})
	return h
}

func (h *contactsHarness) summaryOf(t *testing.T, id uuid.UUID) string {
	t.Helper()
	row, err := h.addresses.GetByID(h.dbc, id)
	if err != nil {
		t.Fatalf("GetByID %s: %v", id, err)
	}
	return row.PhoneSummary
}

func (h *contactsHarness) countPhones(t *testing.T, addressID uuid.UUID) int64 {
	t.Helper()
	return repotest.CountPhones(t, context.Background(), h.db, addressID)
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if !domainagg.IsCode(err, code) {
		t.Fatalf("expected %s, got code=%q err=%v", code, domainagg.CodeOf(err), err)
	}
}

func TestContactsScenario(t *testing.T) {
	h := newContactsHarness(t)

	a1, err := h.addressStore.Create(h.dbc, ann, "Ann", "Lee")
	if err != nil {
		t.Fatalf("Create address: %v", err)
	}
	if a1.PhoneSummary != "" {
		t.Fatalf("new address summary: want=\"\" got=%q", a1.PhoneSummary)
	}

	p1, err := h.phoneStore.Create(h.dbc, a1.ID, ann, "555-1000", "home")
	if err != nil {
		t.Fatalf("Create phone 1: %v", err)
	}
	if got := h.summaryOf(t, a1.ID); got != "555-1000 (home)" {
		t.Fatalf("summary after first phone: %q", got)
	}

	if _, err := h.phoneStore.Create(h.dbc, a1.ID, ann, "555-2000", "mobile"); err != nil {
		t.Fatalf("Create phone 2: %v", err)
	}
	if got := h.summaryOf(t, a1.ID); got != "555-1000 (home), 555-2000 (mobile)" {
		t.Fatalf("summary after second phone: %q", got)
	}

	if err := h.phoneStore.Delete(h.dbc, p1.ID, ann); err != nil {
		t.Fatalf("Delete phone 1: %v", err)
	}
	if got := h.summaryOf(t, a1.ID); got != "555-2000 (mobile)" {
		t.Fatalf("summary after delete: %q", got)
	}

	_, err = h.addressStore.Update(h.dbc, a1.ID, bob, "Eve", "Evil")
	requireCode(t, err, domainagg.CodeForbidden)

	listed, err := h.addressStore.ListByOwner(h.dbc, ann)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(listed) != 1 || listed[0].PhoneSummary != "555-2000 (mobile)" || listed[0].First != "Ann" {
		t.Fatalf("listed addresses: %+v", listed)
	}
}

func TestAddressStoreCreateValidation(t *testing.T) {
	h := newContactsHarness(t)

	_, err := h.addressStore.Create(h.dbc, ann, "", "Lee")
	requireCode(t, err, domainagg.CodeValidation)
	_, err = h.addressStore.Create(h.dbc, ann, "Ann", "   ")
	requireCode(t, err, domainagg.CodeValidation)

	rows, err := h.addresses.ListAll(h.dbc, 0)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected nothing persisted, got %d rows", len(rows))
	}

	created, err := h.addressStore.Create(h.dbc, " "+ann+" ", "  Ann ", " Lee")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.OwnerID != ann || created.First != "Ann" || created.Last != "Lee" {
		t.Fatalf("expected trimmed fields, got %+v", created)
	}
}

func TestAddressStoreListByOwnerIsScoped(t *testing.T) {
	h := newContactsHarness(t)

	mine := map[uuid.UUID]bool{}
	for i := 0; i < 3; i++ {
		a, err := h.addressStore.Create(h.dbc, ann, fmt.Sprintf("Ann%d", i), "Lee")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		mine[a.ID] = true
	}
	if _, err := h.addressStore.Create(h.dbc, bob, "Bob", "Ng"); err != nil {
		t.Fatalf("Create bob: %v", err)
	}

	first, err := h.addressStore.ListByOwner(h.dbc, ann)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(first) != len(mine) {
		t.Fatalf("ListByOwner: want=%d got=%d", len(mine), len(first))
	}
	for _, a := range first {
		if !mine[a.ID] {
			t.Fatalf("ListByOwner returned foreign address %+v", a)
		}
	}
	second, err := h.addressStore.ListByOwner(h.dbc, ann)
	if err != nil {
		t.Fatalf("ListByOwner again: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order not stable at %d", i)
		}
	}

	_, err = h.addressStore.ListByOwner(h.dbc, "")
	requireCode(t, err, domainagg.CodeValidation)
}

func TestAddressStoreCheckOrder(t *testing.T) {
	h := newContactsHarness(t)
	a, err := h.addressStore.Create(h.dbc, ann, "Ann", "Lee")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cases := []struct {
		name      string
		id        uuid.UUID
		requester string
		first     string
		want      domainagg.ErrorCode
	}{
		{"no identity", a.ID, "", "Annie", domainagg.CodeUnauthenticated},
		{"missing beats forbidden", uuid.New(), bob, "", domainagg.CodeNotFound},
		{"forbidden beats validation", a.ID, bob, "", domainagg.CodeForbidden},
		{"owner with empty field", a.ID, ann, "  ", domainagg.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.addressStore.Update(h.dbc, tc.id, tc.requester, tc.first, "Lee")
			requireCode(t, err, tc.want)
		})
	}

	got, err := h.addressStore.Get(h.dbc, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.First != "Ann" {
		t.Fatalf("failed updates must not apply, first=%q", got.First)
	}

	updated, err := h.addressStore.Update(h.dbc, a.ID, ann, "Annie", "Li")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.First != "Annie" || updated.Last != "Li" || updated.OwnerID != ann {
		t.Fatalf("Update: unexpected row %+v", updated)
	}

	_, err = h.addressStore.Get(h.dbc, uuid.New())
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestAddressStoreDeleteCascades(t *testing.T) {
	h := newContactsHarness(t)
	a, err := h.addressStore.Create(h.dbc, ann, "Ann", "Lee")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	other, err := h.addressStore.Create(h.dbc, ann, "Bo", "Kim")
	if err != nil {
		t.Fatalf("Create other: %v", err)
	}
	var phoneIDs []uuid.UUID
	for _, n := range []string{"555-1000", "555-2000"} {
		p, err := h.phoneStore.Create(h.dbc, a.ID, ann, n, "home")
		if err != nil {
			t.Fatalf("Create phone: %v", err)
		}
		phoneIDs = append(phoneIDs, p.ID)
	}
	if _, err := h.phoneStore.Create(h.dbc, other.ID, ann, "555-3000", "work"); err != nil {
		t.Fatalf("Create other phone: %v", err)
	}

	requireCode(t, h.addressStore.Delete(h.dbc, a.ID, bob), domainagg.CodeForbidden)
	if n := h.countPhones(t, a.ID); n != 2 {
		t.Fatalf("forbidden delete removed phones, remaining=%d", n)
	}

	if err := h.addressStore.Delete(h.dbc, a.ID, ann); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := h.countPhones(t, a.ID); n != 0 {
		t.Fatalf("orphan phones remain: %d", n)
	}
	if n := h.countPhones(t, other.ID); n != 1 {
		t.Fatalf("sibling address phones touched: %d", n)
	}
	for _, id := range phoneIDs {
		_, err := h.phoneStore.Get(h.dbc, id)
		requireCode(t, err, domainagg.CodeNotFound)
	}
	_, err = h.addressStore.Authorize(h.dbc, a.ID, ann)
	requireCode(t, err, domainagg.CodeNotFound)
	requireCode(t, h.addressStore.Delete(h.dbc, a.ID, ann), domainagg.CodeNotFound)
	_, err = h.phoneStore.Create(h.dbc, a.ID, ann, "555-9999", "home")
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestPhoneStoreOwnershipAndValidation(t *testing.T) {
	h := newContactsHarness(t)
	a, err := h.addressStore.Create(h.dbc, ann, "Ann", "Lee")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p, err := h.phoneStore.Create(h.dbc, a.ID, ann, " 555-1000 ", " home ")
	if err != nil {
		t.Fatalf("Create phone: %v", err)
	}
	if p.PhoneNumber != "555-1000" || p.Kind != "home" || p.Seq != 1 {
		t.Fatalf("Create phone: unexpected row %+v", p)
	}

	_, err = h.phoneStore.Create(h.dbc, a.ID, bob, "555-2000", "")
	requireCode(t, err, domainagg.CodeForbidden)
	_, err = h.phoneStore.Create(h.dbc, uuid.New(), ann, "555-2000", "mobile")
	requireCode(t, err, domainagg.CodeNotFound)
	_, err = h.phoneStore.Create(h.dbc, a.ID, ann, "", "mobile")
	requireCode(t, err, domainagg.CodeValidation)
	_, err = h.phoneStore.Create(h.dbc, a.ID, "", "555-2000", "mobile")
	requireCode(t, err, domainagg.CodeUnauthenticated)

	_, err = h.phoneStore.Update(h.dbc, p.ID, bob, "555-0000", "work")
	requireCode(t, err, domainagg.CodeForbidden)
	_, err = h.phoneStore.Update(h.dbc, uuid.New(), ann, "555-0000", "work")
	requireCode(t, err, domainagg.CodeNotFound)
	_, err = h.phoneStore.Update(h.dbc, p.ID, ann, "555-0000", "")
	requireCode(t, err, domainagg.CodeValidation)
	requireCode(t, h.phoneStore.Delete(h.dbc, p.ID, bob), domainagg.CodeForbidden)
	requireCode(t, h.phoneStore.Delete(h.dbc, uuid.New(), ann), domainagg.CodeNotFound)

	if n := h.countPhones(t, a.ID); n != 1 {
		t.Fatalf("rejected calls changed phones: %d", n)
	}
	if got := h.summaryOf(t, a.ID); got != "555-1000 (home)" {
		t.Fatalf("rejected calls changed summary: %q", got)
	}

	updated, err := h.phoneStore.Update(h.dbc, p.ID, ann, "555-1001", "work")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PhoneNumber != "555-1001" || updated.Kind != "work" || updated.AddressID != a.ID {
		t.Fatalf("Update: unexpected row %+v", updated)
	}
	if got := h.summaryOf(t, a.ID); got != "555-1001 (work)" {
		t.Fatalf("summary after update: %q", got)
	}
}

func TestPhoneSummaryRecomputeIsIdempotent(t *testing.T) {
	h := newContactsHarness(t)
	a, err := h.addressStore.Create(h.dbc, ann, "Ann", "Lee")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	empty, err := h.summary.RecomputeSummary(h.dbc, a.ID)
	if err != nil {
		t.Fatalf("Recompute empty: %v", err)
	}
	if empty != "" {
		t.Fatalf("empty summary: %q", empty)
	}

	for _, p := range [][2]string{{"555-1000", "home"}, {"555-2000", "mobile"}} {
		if _, err := h.phoneStore.Create(h.dbc, a.ID, ann, p[0], p[1]); err != nil {
			t.Fatalf("Create phone: %v", err)
		}
	}
	if err := h.addresses.SetSummary(h.dbc, a.ID, "stale"); err != nil {
		t.Fatalf("SetSummary: %v", err)
	}

	preview, err := h.summary.ComputeSummary(h.dbc, a.ID)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}
	if got := h.summaryOf(t, a.ID); got != "stale" {
		t.Fatalf("ComputeSummary must not write, got %q", got)
	}

	first, err := h.summary.RecomputeSummary(h.dbc, a.ID)
	if err != nil {
		t.Fatalf("Recompute 1: %v", err)
	}
	second, err := h.summary.RecomputeSummary(h.dbc, a.ID)
	if err != nil {
		t.Fatalf("Recompute 2: %v", err)
	}
	want := "555-1000 (home), 555-2000 (mobile)"
	if first != want || second != want || preview != want {
		t.Fatalf("summaries: preview=%q first=%q second=%q", preview, first, second)
	}
	if got := h.summaryOf(t, a.ID); got != want {
		t.Fatalf("stored summary: %q", got)
	}

	_, err = h.summary.RecomputeSummary(h.dbc, uuid.New())
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestPhoneStoreConcurrentCreatesSerializePerAddress(t *testing.T) {
	h := newContactsHarness(t)
	a, err := h.addressStore.Create(h.dbc, ann, "Ann", "Lee")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.phoneStore.Create(h.dbc, a.ID, ann, fmt.Sprintf("555-%04d", i), "home")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Create: %v", err)
		}
	}

	phones, err := h.phoneStore.ListByAddress(h.dbc, a.ID)
	if err != nil {
		t.Fatalf("ListByAddress: %v", err)
	}
	if len(phones) != n {
		t.Fatalf("phones: want=%d got=%d", n, len(phones))
	}
	parts := make([]string, 0, n)
	for i, p := range phones {
		if p.Seq != int64(i+1) {
			t.Fatalf("seq gap at %d: %d", i, p.Seq)
		}
		parts = append(parts, p.PhoneNumber+" ("+p.Kind+")")
	}
	summary := h.summaryOf(t, a.ID)
	if summary != strings.Join(parts, ", ") {
		t.Fatalf("summary out of sync:\n got=%q\nwant=%q", summary, strings.Join(parts, ", "))
	}
}

type failingSummarizer struct {
	err error
}

func (failingSummarizer) Contract() domainagg.Contract { return domainagg.PhoneSummaryContract }

func (f failingSummarizer) RecomputeSummary(dbctx.Context, uuid.UUID) (string, error) {
	return "", f.err
}

func (f failingSummarizer) ComputeSummary(dbctx.Context, uuid.UUID) (string, error) {
	return "", f.err
}

func TestPhoneStoreRollsBackWhenRecomputeFails(t *testing.T) {
	h := newContactsHarness(t)
	a, err := h.addressStore.Create(h.dbc, ann, "Ann", "Lee")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p, err := h.phoneStore.Create(h.dbc, a.ID, ann, "555-1000", "home")
	if err != nil {
		t.Fatalf("Create phone: %v", err)
	}

	boom := errors.New("summary write failed")
	broken := NewPhoneStore(PhoneStoreDeps{
		Base:      h.base,
		Addresses: h.addresses,
		Phones:    h.phones,
		Summary:   failingSummarizer{err: boom},
	})

	_, err = broken.Create(h.dbc, a.ID, ann, "555-2000", "mobile")
	requireCode(t, err, domainagg.CodeInternal)
	if !errors.Is(err, boom) {
		t.Fatalf("cause lost: %v", err)
	}
	if _, err := broken.Update(h.dbc, p.ID, ann, "555-0000", "work"); err == nil {
		t.Fatalf("Update: expected error")
	}
	if err := broken.Delete(h.dbc, p.ID, ann); err == nil {
		t.Fatalf("Delete: expected error")
	}

	phones, err := h.phoneStore.ListByAddress(h.dbc, a.ID)
	if err != nil {
		t.Fatalf("ListByAddress: %v", err)
	}
	if len(phones) != 1 || phones[0].PhoneNumber != "555-1000" || phones[0].Kind != "home" {
		t.Fatalf("failed writes leaked: %+v", phones)
	}
	if got := h.summaryOf(t, a.ID); got != "555-1000 (home)" {
		t.Fatalf("summary changed: %q", got)
	}
}

func TestAggregateContracts(t *testing.T) {
	h := newContactsHarness(t)
	if !h.addressStore.Contract().RequiresAggregateOwnedTx() {
		t.Fatalf("address store must own its transactions")
	}
	if !h.phoneStore.Contract().RequiresAggregateOwnedTx() {
		t.Fatalf("phone store must own its transactions")
	}
	if h.summary.Contract().RequiresAggregateOwnedTx() {
		t.Fatalf("summary aggregator joins the caller transaction")
	}
}
