package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/contactbook-backend/internal/app"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

func main() {
	var addresses idList
	var owner string
	var dryRun bool
	var limit int
	flag.Var(&addresses, "address", "address id to recompute (repeatable)")
	flag.StringVar(&owner, "owner", "", "only addresses owned by this user id")
	flag.BoolVar(&dryRun, "dry-run", false, "report stale summaries without writing")
	flag.IntVar(&limit, "limit", 0, "limit number of addresses processed")
	flag.Parse()

	ctx := context.Background()
	core, err := app.NewCore(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer core.Close()

	dbc := dbctx.Context{Ctx: ctx}
	rows, err := loadAddresses(dbc, core, addresses, strings.TrimSpace(owner), limit)
	if err != nil {
		fmt.Printf("load addresses: %v\n", err)
		core.Close()
		os.Exit(1)
	}

	summary := core.Aggregates.Summary
	changed, failed := 0, 0
	for _, addr := range rows {
		if addr == nil || addr.ID == uuid.Nil {
			continue
		}
		want, err := summary.ComputeSummary(dbc, addr.ID)
		if err != nil {
			failed++
			fmt.Printf("compute failed for address %s: %v\n", addr.ID, err)
			continue
		}
		if want == addr.PhoneSummary {
			continue
		}
		if dryRun {
			fmt.Printf("[dry-run] address_id=%s stale summary %q -> %q\n", addr.ID, addr.PhoneSummary, want)
			changed++
			continue
		}
		if _, err := summary.RecomputeSummary(dbc, addr.ID); err != nil {
			failed++
			fmt.Printf("recompute failed for address %s: %v\n", addr.ID, err)
			continue
		}
		changed++
		fmt.Printf("recomputed phone_summary for address_id=%s\n", addr.ID)
	}

	fmt.Printf("done; scanned=%d changed=%d failed=%d\n", len(rows), changed, failed)
	if failed > 0 {
		core.Close()
		os.Exit(1)
	}
}

func loadAddresses(dbc dbctx.Context, core *app.Core, raw idList, owner string, limit int) ([]*types.Address, error) {
	var rows []*types.Address
	var err error
	switch {
	case len(raw) > 0:
		ids := make([]uuid.UUID, 0, len(raw))
		for _, s := range raw {
			id, perr := uuid.Parse(s)
			if perr != nil || id == uuid.Nil {
				fmt.Printf("skipping invalid address id %q\n", s)
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("no valid address ids provided")
		}
		rows, err = core.Repos.Address.GetByIDs(dbc, ids)
	case owner != "":
		rows, err = core.Repos.Address.ListByOwner(dbc, owner)
	default:
		return core.Repos.Address.ListAll(dbc, limit)
	}
	if err != nil {
		return nil, err
	}
	if owner != "" && len(raw) > 0 {
		filtered := rows[:0]
		for _, r := range rows {
			if r != nil && r.OwnerID == owner {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
