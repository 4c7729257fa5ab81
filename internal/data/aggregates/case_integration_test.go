package aggregates_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/intervention-backend/internal/data/aggregates"
	"github.com/yungbote/intervention-backend/internal/data/repos"
	aggtestutil "github.com/yungbote/intervention-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/intervention-backend/internal/data/repos/testutil"
	types "github.com/yungbote/intervention-backend/internal/domain"
	domainagg "github.com/yungbote/intervention-backend/internal/domain/aggregates"
	"github.com/yungbote/intervention-backend/internal/normalization"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
)

const testActor uint = 42

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	db    *gorm.DB
	agg   *aggregates.CaseAggregate
	repos aggregates.CaseRepos
	hooks *aggtestutil.HooksRecorder
}

func newHarness(t *testing.T, mutate ...func(*aggregates.CaseAggregateDeps)) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	hooks := &aggtestutil.HooksRecorder{}
	caseRepos := aggregates.NewCaseRepos(db, log)
	deps := aggregates.CaseAggregateDeps{
		Base:  aggregates.BaseDeps{DB: db, Log: log, Hooks: hooks},
		Repos: caseRepos,
		Now:   func() time.Time { return fixedNow },
	}
	for _, m := range mutate {
		m(&deps)
	}
	return &harness{db: db, agg: aggregates.NewCaseAggregate(deps), repos: caseRepos, hooks: hooks}
}

func fullCreateInput() domainagg.CreateCaseInput {
	var in domainagg.CreateCaseInput
	raw := `{
		"case": {"coordinator": "Ana", "operator": "Luis", "summary": "first contact"},
		"referral": {"reasonCode": 2, "referrerName": "Desk officer", "referralTimestamp": "2024-05-30T08:15"},
		"criminalEvent": {
			"caseFileNumber": "IPP-77",
			"attackerCount": 1,
			"crimeTypes": {"robbery": true, "threats": 1, "femicide": "", "other": 0},
			"location": {"address": "Main 100", "districtId": 3}
		},
		"primaryResponseAction": "contained the victim",
		"sexualAbuse": {"simple": true, "aggravated": true},
		"sexualAbuseDetail": {"kitApplied": true, "relationToVictim": 2, "placeKind": 1},
		"victim": {
			"nationalId": "30111222", "fullName": "Maria P", "genderId": 1, "birthDate": "1990-01-02",
			"phone": "555-0101", "occupation": "nurse",
			"address": {"streetAndNumber": "Oak 12", "neighborhood": "Centro", "districtId": 1, "localityId": 2}
		},
		"interviewedPerson": {
			"fullName": "Jose P", "relationToVictim": "brother",
			"address": {"streetAndNumber": "Elm 9", "districtId": 2, "localityId": 3}
		},
		"interventionTypeFlags": {"crisis": true, "phone": true},
		"followUp": {"occurred": "no", "typeFlags": {"legalAdvice": true}},
		"followUpDetail": "call back monday"
	}`
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		panic(err)
	}
	in.ActorID = testActor
	return in
}

func decodePatch(t *testing.T, caseID uint, raw string) domainagg.PatchCaseInput {
	t.Helper()
	var in domainagg.PatchCaseInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	in.CaseID = caseID
	in.ActorID = testActor
	return in
}

func (h *harness) aggregate(t *testing.T, caseID uint) *types.Case {
	t.Helper()
	c, err := h.repos.Cases.GetAggregate(dbctx.Context{Ctx: context.Background()}, caseID)
	if err != nil || c == nil {
		t.Fatalf("GetAggregate(%d): got=%v err=%v", caseID, c, err)
	}
	return c
}

func (h *harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (h *harness) create(t *testing.T) domainagg.CreateCaseResult {
	t.Helper()
	res, err := h.agg.Create(context.Background(), fullCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return res
}

func TestCaseCreateLinksEveryRow(t *testing.T) {
	h := newHarness(t)
	res := h.create(t)

	if res.Code != "0001-2024" {
		t.Fatalf("code: want=0001-2024 got=%s", res.Code)
	}
	c := h.aggregate(t, res.IDs.CaseID)
	if c.Status != types.CaseStatusActive || c.Deleted {
		t.Fatalf("new case state: status=%s deleted=%v", c.Status, c.Deleted)
	}
	if !c.Date.Equal(fixedNow) {
		t.Fatalf("case date: want=%v got=%v", fixedNow, c.Date)
	}
	if c.Coordinator == nil || *c.Coordinator != "Ana" {
		t.Fatalf("coordinator: %v", c.Coordinator)
	}
	if c.Referral == nil || c.Referral.ID != res.IDs.ReferralID || c.Referral.ReasonID != 2 {
		t.Fatalf("referral: %+v", c.Referral)
	}
	if want := time.Date(2024, 5, 30, 8, 15, 0, 0, time.UTC); !c.Referral.ReferredAt.Equal(want) {
		t.Fatalf("referral timestamp: want=%v got=%v", want, c.Referral.ReferredAt)
	}
	ev := c.CriminalEvent
	if ev == nil || ev.ID != res.IDs.CriminalEventID || ev.AttackerCount != 1 {
		t.Fatalf("criminal event: %+v", ev)
	}
	if ev.CrimeTypes == nil || !ev.CrimeTypes.Robbery || !ev.CrimeTypes.Threats || ev.CrimeTypes.Femicide || ev.CrimeTypes.Other {
		t.Fatalf("crime types: %+v", ev.CrimeTypes)
	}
	if ev.Location == nil || ev.Location.DistrictID != 3 {
		t.Fatalf("location: %+v", ev.Location)
	}
	if c.PrimaryResponseAction == nil || c.PrimaryResponseAction.AuditUserID != testActor {
		t.Fatalf("primary response action: %+v", c.PrimaryResponseAction)
	}
	if c.SexualAbuse == nil || c.SexualAbuse.Kind != types.AbuseAggravated {
		t.Fatalf("sexual abuse: %+v", c.SexualAbuse)
	}
	if c.SexualAbuse.Detail == nil || !c.SexualAbuse.Detail.KitApplied {
		t.Fatalf("sexual abuse detail: %+v", c.SexualAbuse.Detail)
	}
	v := c.Victim
	if v == nil || v.ID != res.IDs.VictimID || v.VictimCountForEvent != 1 {
		t.Fatalf("victim: %+v", v)
	}
	if v.Address == nil || v.Address.DistrictID != "1" || v.Address.LocalityID != "2" {
		t.Fatalf("victim address: %+v", v.Address)
	}
	if v.BirthDate == nil || time.Time(*v.BirthDate).Year() != 1990 {
		t.Fatalf("birth date: %v", v.BirthDate)
	}
	ip := v.InterviewedPerson
	if ip == nil || ip.ID != res.IDs.InterviewedPersonID || ip.Address == nil || ip.AddressID == v.AddressID {
		t.Fatalf("interviewed person: %+v", ip)
	}
	if c.InterventionTypes == nil || !c.InterventionTypes.Crisis || c.InterventionTypes.Legal {
		t.Fatalf("intervention types: %+v", c.InterventionTypes)
	}
	fu := c.FollowUp
	if fu == nil || fu.ID != res.IDs.FollowUpID || fu.Occurred {
		t.Fatalf("follow up: %+v", fu)
	}
	if fu.Types == nil || !fu.Types.LegalAdvice || fu.Detail == nil || fu.Detail.Detail != "call back monday" {
		t.Fatalf("follow up children: types=%+v detail=%+v", fu.Types, fu.Detail)
	}

	events, err := h.repos.Events.ListByCaseID(dbctx.Context{Ctx: context.Background()}, c.ID)
	if err != nil || len(events) != 1 || events[0].Kind != types.CaseEventCreated || events[0].ActorID != testActor {
		t.Fatalf("case events: err=%v events=%+v", err, events)
	}
	if len(h.hooks.Operations) != 1 || h.hooks.Operations[0].Status != "success" {
		t.Fatalf("hooks: %+v", h.hooks.Operations)
	}
}

func TestCaseContractCoversWrittenTables(t *testing.T) {
	h := newHarness(t)
	h.create(t)
	contract := h.agg.Contract()

	var unowned []string
	for _, model := range types.AllModels() {
		table := model.(interface{ TableName() string }).TableName()
		if !contract.Owns(table) {
			unowned = append(unowned, table)
			continue
		}
		var n int64
		if err := h.db.Table(table).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n == 0 {
			t.Fatalf("owned table %s has no rows after a full create", table)
		}
	}
	want := map[string]bool{"referral_reason": true, "gender": true, "district": true, "locality": true}
	if len(unowned) != len(want) {
		t.Fatalf("unowned tables: want catalogs only, got %v", unowned)
	}
	for _, table := range unowned {
		if !want[table] {
			t.Fatalf("table %s is written by the case aggregate but not listed in its contract", table)
		}
	}
}

func TestCaseCodeSequencePerYear(t *testing.T) {
	now := fixedNow
	h := newHarness(t, func(d *aggregates.CaseAggregateDeps) {
		d.Now = func() time.Time { return now }
	})
	want := []string{"0001-2024", "0002-2024", "0003-2024"}
	var last domainagg.CreateCaseResult
	for _, code := range want {
		last = h.create(t)
		if last.Code != code {
			t.Fatalf("code: want=%s got=%s", code, last.Code)
		}
	}

	if _, err := h.agg.Transition(context.Background(), domainagg.TransitionInput{
		CaseID: last.IDs.CaseID, ActorID: testActor, Transition: domainagg.TransitionDelete,
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := h.create(t).Code; got != "0004-2024" {
		t.Fatalf("deleted codes stay taken: want=0004-2024 got=%s", got)
	}

	now = time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC)
	if got := h.create(t).Code; got != "0001-2025" {
		t.Fatalf("new year restarts: want=0001-2025 got=%s", got)
	}
}

func TestCaseCodeGeneratorCollisions(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	caseRepos := aggregates.NewCaseRepos(db, testutil.Logger(t))
	// 0002..0006 exist with lower ids than 0001, so the latest-by-id code
	// keeps pointing at an occupied successor.
	for _, code := range []string{"0002-2024", "0003-2024", "0004-2024", "0005-2024", "0006-2024", "0001-2024"} {
		testutil.SeedCase(t, ctx, db, code)
	}
	dbc := dbctx.Context{Ctx: ctx}
	now := func() time.Time { return fixedNow }

	collisions := 0
	gen := aggregates.CaseCodeGenerator{Cases: caseRepos.Cases, MaxAttempts: 5, Now: now, OnCollision: func() { collisions++ }}
	_, err := gen.Next(dbc)
	if !errors.Is(err, aggregates.ErrExhausted) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	if collisions != 5 {
		t.Fatalf("collisions: want=5 got=%d", collisions)
	}
	if mapped := aggregates.MapError("op", err); !domainagg.IsCode(mapped, domainagg.CodeExhausted) {
		t.Fatalf("expected exhausted code, got %q", domainagg.CodeOf(mapped))
	}

	gen.MaxAttempts = 6
	code, err := gen.Next(dbc)
	if err != nil || code != "0007-2024" {
		t.Fatalf("Next with room: code=%s err=%v", code, err)
	}

	testutil.SeedCase(t, ctx, db, "ABCD-2024")
	if _, err := gen.Next(dbc); !errors.Is(err, aggregates.ErrInvariant) {
		t.Fatalf("expected invariant error for unparsable prefix, got %v", err)
	}
}

func TestCaseCreateSurfacesCodeExhaustion(t *testing.T) {
	h := newHarness(t, func(d *aggregates.CaseAggregateDeps) { d.CodeMaxAttempts = 3 })
	ctx := context.Background()
	for _, code := range []string{"0002-2024", "0003-2024", "0004-2024", "0001-2024"} {
		testutil.SeedCase(t, ctx, h.db, code)
	}

	_, err := h.agg.Create(ctx, fullCreateInput())
	if !domainagg.IsCode(err, domainagg.CodeExhausted) {
		t.Fatalf("expected exhausted, got %v", err)
	}
	if h.hooks.CodeCollisions != 3 {
		t.Fatalf("collisions: want=3 got=%d", h.hooks.CodeCollisions)
	}
	if len(h.hooks.Exhausted) != 1 || h.hooks.Exhausted[0] != "aggregate.case.create" {
		t.Fatalf("exhausted hooks: %v", h.hooks.Exhausted)
	}
	if len(h.hooks.Retries) != 0 {
		t.Fatalf("exhaustion should not re-run create, retries=%v", h.hooks.Retries)
	}
	if n := h.count(t, &types.Referral{}); n != 0 {
		t.Fatalf("referrals after exhausted create: %d", n)
	}
}

func TestCasePatchTouchesOnlyGivenField(t *testing.T) {
	h := newHarness(t)
	res := h.create(t)
	before := h.aggregate(t, res.IDs.CaseID)

	out, err := h.agg.Patch(context.Background(), decodePatch(t, res.IDs.CaseID, `{"criminalEvent": {"attackerCount": 3}}`))
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	after := out.Case
	if after == nil || after.CriminalEvent == nil || after.CriminalEvent.AttackerCount != 3 {
		t.Fatalf("attacker count not applied: %+v", after)
	}
	if len(out.Applied) != 1 || out.Applied[0] != domainagg.SectionCriminalEvent || len(out.Skipped) != 0 {
		t.Fatalf("sections: applied=%v skipped=%v", out.Applied, out.Skipped)
	}
	if after.CriminalEvent.CaseFileNumber != before.CriminalEvent.CaseFileNumber {
		t.Fatalf("case file number changed")
	}
	if *after.CriminalEvent.CrimeTypes != *before.CriminalEvent.CrimeTypes {
		t.Fatalf("crime flags changed: before=%+v after=%+v", before.CriminalEvent.CrimeTypes, after.CriminalEvent.CrimeTypes)
	}
	if *after.CriminalEvent.Location != *before.CriminalEvent.Location {
		t.Fatalf("location changed")
	}
	if after.Summary != before.Summary || *after.Coordinator != *before.Coordinator {
		t.Fatalf("case header changed")
	}
	if after.SexualAbuse.Kind != before.SexualAbuse.Kind || *after.SexualAbuse.Detail != *before.SexualAbuse.Detail {
		t.Fatalf("sexual abuse changed")
	}
	if after.Victim.FullName != before.Victim.FullName || *after.Victim.Address != *before.Victim.Address {
		t.Fatalf("victim changed")
	}
	if *after.InterventionTypes != *before.InterventionTypes {
		t.Fatalf("intervention types changed")
	}
	if after.FollowUp.Occurred != before.FollowUp.Occurred || *after.FollowUp.Types != *before.FollowUp.Types || *after.FollowUp.Detail != *before.FollowUp.Detail {
		t.Fatalf("follow up changed")
	}
}

func TestCasePatchMergesNestedSections(t *testing.T) {
	h := newHarness(t)
	res := h.create(t)

	out, err := h.agg.Patch(context.Background(), decodePatch(t, res.IDs.CaseID, `{
		"case": {"summary": "  second visit  ", "coordinator": null},
		"referral": {"referralTimestamp": "2024-06-01 09:00:00"},
		"criminalEvent": {"crimeTypes": {"robbery": false, "injury": true}, "location": {"districtId": 5}},
		"primaryResponseAction": "",
		"victim": {"phone": "555-0199", "birthDate": null, "address": {"localityId": 9}},
		"interviewedPerson": {"address": {"neighborhood": "Puerto"}},
		"interventionTypeFlags": {"legal": "yes"},
		"followUp": {"occurred": "si", "typeFlags": {"caseArchived": 1}},
		"followUpDetail": ""
	}`))
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	c := out.Case
	if c.Summary != "second visit" || c.Coordinator != nil || c.Operator == nil || *c.Operator != "Luis" {
		t.Fatalf("case header: summary=%q coordinator=%v operator=%v", c.Summary, c.Coordinator, c.Operator)
	}
	if want := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC); !c.Referral.ReferredAt.Equal(want) || c.Referral.ReferrerName != "Desk officer" {
		t.Fatalf("referral: %+v", c.Referral)
	}
	ct := c.CriminalEvent.CrimeTypes
	if ct.Robbery || !ct.Injury || !ct.Threats {
		t.Fatalf("crime flags: %+v", ct)
	}
	if c.CriminalEvent.Location.DistrictID != 5 || c.CriminalEvent.Location.Address != "Main 100" {
		t.Fatalf("location: %+v", c.CriminalEvent.Location)
	}
	if c.PrimaryResponseAction.ActionsTaken != "" {
		t.Fatalf("empty string should overwrite actions taken, got %q", c.PrimaryResponseAction.ActionsTaken)
	}
	if c.Victim.Phone != "555-0199" || c.Victim.BirthDate != nil || c.Victim.FullName != "Maria P" {
		t.Fatalf("victim: %+v", c.Victim)
	}
	if c.Victim.Address.LocalityID != "9" || c.Victim.Address.DistrictID != "1" {
		t.Fatalf("victim address: %+v", c.Victim.Address)
	}
	if c.Victim.InterviewedPerson.Address.Neighborhood != "Puerto" || c.Victim.InterviewedPerson.Address.StreetAndNumber != "Elm 9" {
		t.Fatalf("interviewed address: %+v", c.Victim.InterviewedPerson.Address)
	}
	if !c.InterventionTypes.Legal || !c.InterventionTypes.Crisis {
		t.Fatalf("intervention types: %+v", c.InterventionTypes)
	}
	if !c.FollowUp.Occurred || !c.FollowUp.Types.CaseArchived || !c.FollowUp.Types.LegalAdvice || c.FollowUp.Detail.Detail != "" {
		t.Fatalf("follow up: %+v types=%+v detail=%+v", c.FollowUp, c.FollowUp.Types, c.FollowUp.Detail)
	}

	events, err := h.repos.Events.ListByCaseID(dbctx.Context{Ctx: context.Background()}, c.ID)
	if err != nil || len(events) != 2 || events[1].Kind != types.CaseEventPatched {
		t.Fatalf("events: err=%v events=%+v", err, events)
	}
}

func TestCaseAddressMissingCatalogIDsMatchNull(t *testing.T) {
	h := newHarness(t)
	in := fullCreateInput()
	in.InterviewedPerson.Address.DistrictID = 0
	in.InterviewedPerson.Address.LocalityID = 0
	res, err := h.agg.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created := h.aggregate(t, res.IDs.CaseID).Victim.InterviewedPerson.Address
	if created.DistrictID != "" || created.LocalityID != "" {
		t.Fatalf("created address ids: district=%q locality=%q", created.DistrictID, created.LocalityID)
	}

	out, err := h.agg.Patch(context.Background(), decodePatch(t, res.IDs.CaseID,
		`{"victim": {"address": {"districtId": null, "localityId": null}}}`))
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	cleared := out.Case.Victim.Address
	if cleared.DistrictID != created.DistrictID || cleared.LocalityID != created.LocalityID {
		t.Fatalf("null ids stored differently from missing ids: district=%q locality=%q", cleared.DistrictID, cleared.LocalityID)
	}
}

func TestCasePatchMissingCase(t *testing.T) {
	runner := &aggtestutil.InjectedTxRunner{}
	h := newHarness(t, func(d *aggregates.CaseAggregateDeps) {
		d.Base.Runner = runner
	})

	_, err := h.agg.Patch(context.Background(), decodePatch(t, 999, `{"case": {"summary": "x"}}`))
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if runner.BeginCalls != 0 {
		t.Fatalf("no transaction may open for a missing case, begin=%d", runner.BeginCalls)
	}
	if n := h.count(t, &types.CaseEvent{}); n != 0 {
		t.Fatalf("expected zero writes, events=%d", n)
	}
	if len(h.hooks.Operations) != 1 || h.hooks.Operations[0].Status != string(domainagg.CodeNotFound) {
		t.Fatalf("hooks: %+v", h.hooks.Operations)
	}
}

func TestCasePatchAbuseKind(t *testing.T) {
	ctx := context.Background()

	withKinds := func(simple, aggravated bool) func(*domainagg.CreateCaseInput) {
		return func(in *domainagg.CreateCaseInput) {
			in.SexualAbuse.Simple = normalization.LooseBool(simple)
			in.SexualAbuse.Aggravated = normalization.LooseBool(aggravated)
		}
	}

	cases := []struct {
		name  string
		setup func(*domainagg.CreateCaseInput)
		patch string
		want  types.AbuseKind
	}{
		{"simple from none", withKinds(false, false), `{"sexualAbuse": {"simple": true}}`, types.AbuseSimple},
		{"aggravated over stored simple", withKinds(true, false), `{"sexualAbuse": {"aggravated": true}}`, types.AbuseAggravated},
		{"aggravated wins when both given", withKinds(false, false), `{"sexualAbuse": {"simple": true, "aggravated": true}}`, types.AbuseAggravated},
		{"falsy simple keeps stored kind", withKinds(false, true), `{"sexualAbuse": {"simple": false}}`, types.AbuseAggravated},
		{"neither field leaves kind", withKinds(true, false), `{"sexualAbuse": {}}`, types.AbuseSimple},
		{"detail only leaves kind", withKinds(false, true), `{"sexualAbuseDetail": {"placeOther": "park"}}`, types.AbuseAggravated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			in := fullCreateInput()
			tc.setup(&in)
			res, err := h.agg.Create(ctx, in)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			out, err := h.agg.Patch(ctx, decodePatch(t, res.IDs.CaseID, tc.patch))
			if err != nil {
				t.Fatalf("Patch: %v", err)
			}
			if got := out.Case.SexualAbuse.Kind; got != tc.want {
				t.Fatalf("abuse kind: want=%d got=%d", tc.want, got)
			}
		})
	}
}

func TestCasePatchSkipsMissingSubEntities(t *testing.T) {
	h := newHarness(t)
	res := h.create(t)
	c := h.aggregate(t, res.IDs.CaseID)

	if err := h.db.Delete(&types.FollowUpDetail{}, c.FollowUp.Detail.ID).Error; err != nil {
		t.Fatalf("delete follow up detail: %v", err)
	}
	if err := h.db.Delete(&types.InterviewedPerson{}, c.Victim.InterviewedPerson.ID).Error; err != nil {
		t.Fatalf("delete interviewed person: %v", err)
	}

	out, err := h.agg.Patch(context.Background(), decodePatch(t, c.ID, `{
		"case": {"summary": "still works"},
		"interviewedPerson": {"fullName": "nobody"},
		"followUpDetail": "lost"
	}`))
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if out.Case.Summary != "still works" {
		t.Fatalf("present section not applied: %q", out.Case.Summary)
	}
	wantSkipped := map[string]bool{domainagg.SectionInterviewedPerson: true, domainagg.SectionFollowUpDetail: true}
	if len(out.Skipped) != len(wantSkipped) {
		t.Fatalf("skipped: %v", out.Skipped)
	}
	for _, s := range out.Skipped {
		if !wantSkipped[s] {
			t.Fatalf("unexpected skipped section %q", s)
		}
	}
	if n := h.count(t, &types.InterviewedPerson{}); n != 0 {
		t.Fatalf("skip must not create rows, interviewed=%d", n)
	}
}

func TestCasePatchRollsBackOnFailure(t *testing.T) {
	h := newHarness(t)
	res := h.create(t)

	err := h.db.Callback().Update().Before("gorm:update").Register("test:fail_victim_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "victim" {
			_ = tx.AddError(errors.New("injected victim failure"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = h.agg.Patch(context.Background(), decodePatch(t, res.IDs.CaseID, `{
		"case": {"summary": "should roll back"},
		"victim": {"phone": "000"}
	}`))
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if got := h.aggregate(t, res.IDs.CaseID).Summary; got != "first contact" {
		t.Fatalf("case header update survived rollback: %q", got)
	}
	if n := h.count(t, &types.CaseEvent{}); n != 1 {
		t.Fatalf("only the create event should remain, got %d", n)
	}
}

func TestCasePatchValidation(t *testing.T) {
	h := newHarness(t)
	res := h.create(t)
	ctx := context.Background()

	for _, raw := range []string{
		`{"referral": {"referralTimestamp": "not a date"}}`,
		`{"referral": {"reasonCode": null}}`,
		`{"criminalEvent": {"attackerCount": -1}}`,
		`{"victim": {"birthDate": "31/31/2020"}}`,
	} {
		if _, err := h.agg.Patch(ctx, decodePatch(t, res.IDs.CaseID, raw)); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("patch %s: expected validation, got %v", raw, err)
		}
	}
	if _, err := h.agg.Patch(ctx, decodePatch(t, res.IDs.CaseID, `{"referral": {"reasonCode": 99}}`)); !domainagg.IsCode(err, domainagg.CodePreconditionFailed) {
		t.Fatalf("unknown reason: expected precondition_failed, got %v", err)
	}
}

func TestCaseCreateIsAtomic(t *testing.T) {
	tables := []string{
		"intervention_case",
		"referral",
		"crime_type_flags",
		"event_location",
		"primary_response_action",
		"sexual_abuse_detail",
		"victim",
		"interviewed_person",
		"intervention_type_flags",
		"follow_up_type_flags",
		"follow_up_detail",
		"case_event",
	}
	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			h := newHarness(t)
			target := table
			err := h.db.Callback().Create().Before("gorm:create").Register("test:fail_"+target, func(tx *gorm.DB) {
				if tx.Statement.Table == target {
					_ = tx.AddError(errors.New("injected failure"))
				}
			})
			if err != nil {
				t.Fatalf("register callback: %v", err)
			}

			if _, err := h.agg.Create(context.Background(), fullCreateInput()); err == nil {
				t.Fatalf("expected create to fail")
			}
			for _, model := range []any{&types.Case{}, &types.Referral{}, &types.Address{}, &types.Victim{}, &types.FollowUp{}, &types.CaseEvent{}} {
				if n := h.count(t, model); n != 0 {
					t.Fatalf("rows survived rollback for %T: %d", model, n)
				}
			}
		})
	}
}

func TestCaseCreateRetriesLostCodeRace(t *testing.T) {
	h := newHarness(t)
	var calls int32
	err := h.db.Callback().Create().Before("gorm:create").Register("test:steal_code", func(tx *gorm.DB) {
		if tx.Statement.Table == "intervention_case" && atomic.AddInt32(&calls, 1) == 1 {
			_ = tx.AddError(errors.New("UNIQUE constraint failed: intervention_case.code"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	res, err := h.agg.Create(context.Background(), fullCreateInput())
	if err != nil {
		t.Fatalf("Create after lost race: %v", err)
	}
	if res.Code != "0001-2024" {
		t.Fatalf("code: %s", res.Code)
	}
	if len(h.hooks.Conflicts) != 1 || len(h.hooks.Retries) != 1 {
		t.Fatalf("hooks: conflicts=%v retries=%v", h.hooks.Conflicts, h.hooks.Retries)
	}
}

func TestCaseCreateGivesUpAfterMaxAttempts(t *testing.T) {
	h := newHarness(t, func(d *aggregates.CaseAggregateDeps) { d.CreateMaxAttempts = 2 })
	var calls int32
	err := h.db.Callback().Create().Before("gorm:create").Register("test:always_taken", func(tx *gorm.DB) {
		if tx.Statement.Table == "intervention_case" {
			atomic.AddInt32(&calls, 1)
			_ = tx.AddError(errors.New("UNIQUE constraint failed: intervention_case.code"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = h.agg.Create(context.Background(), fullCreateInput())
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("attempts: want=2 got=%d", got)
	}
}

func TestCaseCreateCommitFailureLeavesNoRows(t *testing.T) {
	var runner *aggtestutil.InjectedTxRunner
	h := newHarness(t, func(d *aggregates.CaseAggregateDeps) {
		runner = &aggtestutil.InjectedTxRunner{
			Inner:      aggregates.NewGormTxRunner(d.Base.DB),
			FailCommit: errors.New("connection reset by peer"),
		}
		d.Base.Runner = runner
	})

	_, err := h.agg.Create(context.Background(), fullCreateInput())
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal, got %v", err)
	}
	if runner.BeginCalls != 1 || runner.RollbackCalls != 1 {
		t.Fatalf("begin=%d rollback=%d", runner.BeginCalls, runner.RollbackCalls)
	}
	for _, table := range h.agg.Contract().OwnedTables {
		var n int64
		if err := h.db.Table(table).Count(&n).Error; err != nil || n != 0 {
			t.Fatalf("%s after failed commit: n=%d err=%v", table, n, err)
		}
	}
}

func TestCaseCreateRerunsAfterConflictingCommit(t *testing.T) {
	var runner *aggtestutil.InjectedTxRunner
	h := newHarness(t, func(d *aggregates.CaseAggregateDeps) {
		runner = &aggtestutil.InjectedTxRunner{
			Inner:           aggregates.NewGormTxRunner(d.Base.DB),
			FailCommit:      aggregates.ConflictError("case code taken by a concurrent create"),
			FailCommitTimes: 1,
		}
		d.Base.Runner = runner
	})

	res := h.create(t)
	if res.Code != "0001-2024" {
		t.Fatalf("code after rolled back attempt: want=0001-2024 got=%s", res.Code)
	}
	if runner.BeginCalls != 2 || runner.CommitCalls != 1 {
		t.Fatalf("begin=%d commit=%d", runner.BeginCalls, runner.CommitCalls)
	}
	if got := h.hooks.Statuses("aggregate.case.create"); len(got) != 2 || got[0] != "conflict" || got[1] != "success" {
		t.Fatalf("create statuses: %v", got)
	}
	if len(h.hooks.Retries) != 1 {
		t.Fatalf("retries: %v", h.hooks.Retries)
	}
	if n := h.count(t, &types.Case{}); n != 1 {
		t.Fatalf("cases: want=1 got=%d", n)
	}
}

func TestCaseCreateRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	noActor := fullCreateInput()
	noActor.ActorID = 0
	badTime := fullCreateInput()
	badTime.Referral.ReferralTimestamp = "soon"
	negative := fullCreateInput()
	negative.CriminalEvent.AttackerCount = -2
	for _, in := range []domainagg.CreateCaseInput{noActor, badTime, negative} {
		if _, err := h.agg.Create(ctx, in); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("expected validation, got %v", err)
		}
	}

	unknown := fullCreateInput()
	unknown.Referral.ReasonCode = 77
	if _, err := h.agg.Create(ctx, unknown); !domainagg.IsCode(err, domainagg.CodePreconditionFailed) {
		t.Fatalf("expected precondition_failed, got %v", err)
	}
	if n := h.count(t, &types.Case{}); n != 0 {
		t.Fatalf("rejected creates must not persist, cases=%d", n)
	}
}

func TestCaseTransitions(t *testing.T) {
	h := newHarness(t)
	res := h.create(t)
	ctx := context.Background()
	id := res.IDs.CaseID

	step := func(tr domainagg.Transition) (*types.Case, error) {
		return h.agg.Transition(ctx, domainagg.TransitionInput{CaseID: id, ActorID: testActor, Transition: tr})
	}

	c, err := step(domainagg.TransitionClose)
	if err != nil || c.Status != types.CaseStatusClosed || c.Deleted {
		t.Fatalf("close: c=%+v err=%v", c, err)
	}
	c, err = step(domainagg.TransitionClose)
	if err != nil || c.Status != types.CaseStatusClosed {
		t.Fatalf("close twice: c=%+v err=%v", c, err)
	}
	if _, err := step(domainagg.TransitionArchive); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("archive from closed: expected conflict, got %v", err)
	}
	if c, err = step(domainagg.TransitionReactivate); err != nil || c.Status != types.CaseStatusActive {
		t.Fatalf("reactivate: c=%+v err=%v", c, err)
	}
	if c, err = step(domainagg.TransitionArchive); err != nil || c.Status != types.CaseStatusArchived {
		t.Fatalf("archive: c=%+v err=%v", c, err)
	}
	if c, err = step(domainagg.TransitionDelete); err != nil || c.Status != types.CaseStatusDeleted || !c.Deleted {
		t.Fatalf("delete: c=%+v err=%v", c, err)
	}
	if c, err = step(domainagg.TransitionDelete); err != nil || c.Status != types.CaseStatusDeleted || !c.Deleted {
		t.Fatalf("delete twice: c=%+v err=%v", c, err)
	}
	if _, err := step(domainagg.TransitionReactivate); !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("reactivate deleted: expected invariant_violation, got %v", err)
	}
	if _, err := h.agg.Patch(ctx, decodePatch(t, id, `{"case": {"summary": "x"}}`)); !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("patch deleted: expected invariant_violation, got %v", err)
	}

	var changes int64
	if err := h.db.Model(&types.CaseEvent{}).Where("kind = ?", types.CaseEventStatusChanged).Count(&changes).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if changes != 4 {
		t.Fatalf("status events: want=4 got=%d", changes)
	}
}

// vanishingCaseRepo reports the case as gone on the read that follows the
// guarded update once armed.
type vanishingCaseRepo struct {
	repos.CaseRepo
	armed atomic.Bool
	reads int32
}

func (r *vanishingCaseRepo) GetByID(dbc dbctx.Context, id uint) (*types.Case, error) {
	if r.armed.Load() && atomic.AddInt32(&r.reads, 1) > 1 {
		return nil, nil
	}
	return r.CaseRepo.GetByID(dbc, id)
}

func TestCaseTransitionRowVanishesAfterUpdate(t *testing.T) {
	var cases *vanishingCaseRepo
	h := newHarness(t, func(d *aggregates.CaseAggregateDeps) {
		cases = &vanishingCaseRepo{CaseRepo: d.Repos.Cases}
		d.Repos.Cases = cases
	})
	res := h.create(t)
	cases.armed.Store(true)

	c, err := h.agg.Transition(context.Background(), domainagg.TransitionInput{
		CaseID:     res.IDs.CaseID,
		Transition: domainagg.TransitionClose,
		ActorID:    testActor,
	})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got c=%+v err=%v", c, err)
	}
	if c != nil {
		t.Fatalf("expected no case, got %+v", c)
	}
}

func TestCaseTransitionErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.agg.Transition(ctx, domainagg.TransitionInput{CaseID: 5, Transition: domainagg.TransitionClose}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if _, err := h.agg.Transition(ctx, domainagg.TransitionInput{CaseID: 5, Transition: "explode"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
}

func TestCaseCreatePostgres(t *testing.T) {
	db := testutil.PostgresDB(t)
	log := testutil.Logger(t)
	agg := aggregates.NewCaseAggregate(aggregates.CaseAggregateDeps{
		Base:  aggregates.BaseDeps{DB: db, Log: log},
		Repos: aggregates.NewCaseRepos(db, log),
	})
	res, err := agg.Create(context.Background(), fullCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.IDs.CaseID == 0 || res.IDs.FollowUpID == 0 {
		t.Fatalf("missing ids: %+v", res.IDs)
	}
}
