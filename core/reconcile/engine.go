package reconcile

import (
	"fmt"
	"slices"

	"studyhub/core/models"
)

// CodeIssuer hands out share codes absent from a set of issued codes.
type CodeIssuer interface {
	Generate(existing map[string]struct{}) string
}

// Engine applies snapshots to live state.
// It never mutates the state it is given; callers persist the returned state.
type Engine struct {
	codes CodeIssuer
}

// NewEngine creates an engine that reissues colliding share codes with codes.
func NewEngine(codes CodeIssuer) *Engine {
	return &Engine{codes: codes}
}

// ApplyReplace overwrites every collection with the snapshot's version.
// Counts are the number of records written. Records without an id are
// skipped; a snapshot without a usable user or stats leaves the live value.
func (e *Engine) ApplyReplace(snap *models.Snapshot, live models.State) (models.State, Result) {
	out := live.Clone()
	res := Result{Strategy: StrategyReplace}

	res.guard(models.CollectionUser, func() {
		if user, ok := usableUser(snap.User, &res); ok {
			out.User = user
			res.UserUpdated = true
		}
	})

	res.guard(models.CollectionTasks, func() {
		tasks := make([]models.Task, 0, len(snap.Tasks))
		for i, t := range snap.Tasks {
			if usableTask(i, t, &res) {
				tasks = append(tasks, t)
			}
		}
		out.Tasks = tasks
		res.TasksImported = len(tasks)
	})

	res.guard(models.CollectionGroups, func() {
		// Codes held by groups earlier in the snapshot; the live groups are
		// being discarded so only the history blocks reissue.
		held := make(map[string]struct{}, len(snap.Groups))
		history := out.IssuedCodes()
		groups := make([]models.Group, 0, len(snap.Groups))
		issued := slices.Clone(out.ShareCodes)
		for i, g := range snap.Groups {
			if g.ID == "" {
				res.warn(Warning{Collection: models.CollectionGroups, Index: i, Reason: "missing id"})
				continue
			}
			g = sanitizeGroup(i, g, &res)
			if _, dup := held[g.ShareCode]; dup || g.ShareCode == "" {
				g.ShareCode = e.reissue(i, g, mergeSets(history, held), &res)
			}
			held[g.ShareCode] = struct{}{}
			issued = appendCode(issued, g.ShareCode)
			groups = append(groups, g)
		}
		for _, g := range live.Groups {
			issued = appendCode(issued, g.ShareCode)
		}
		out.Groups = groups
		out.ShareCodes = issued
		res.GroupsImported = len(groups)
	})

	res.guard(models.CollectionFriends, func() {
		friends := make([]models.Friend, 0, len(snap.Friends))
		for i, f := range snap.Friends {
			if f.ID == "" {
				res.warn(Warning{Collection: models.CollectionFriends, Index: i, Reason: "missing id"})
				continue
			}
			friends = append(friends, f)
		}
		out.Friends = friends
		res.FriendsImported = len(friends)
	})

	res.guard(models.CollectionStats, func() {
		if snap.Stats != nil {
			out.Stats = snap.Stats.Clone()
			res.StatsUpdated = true
		}
	})

	return out, res
}

// ApplyMerge unions the snapshot into live state.
//
// Tasks, groups and friends are keyed by id and existing records win; the
// counts are the number of records added. The user keeps its identity fields
// and takes its settings from the snapshot. Stats counters never go down,
// achievements are unioned by id and the current streak is left alone.
// Applying the same snapshot twice adds nothing the second time.
func (e *Engine) ApplyMerge(snap *models.Snapshot, live models.State) (models.State, Result) {
	out := live.Clone()
	res := Result{Strategy: StrategyMerge}

	res.guard(models.CollectionUser, func() {
		incoming, ok := usableUser(snap.User, &res)
		if !ok {
			return
		}
		if out.User != nil {
			incoming.ID = out.User.ID
			incoming.Username = out.User.Username
			incoming.Email = out.User.Email
			incoming.CreatedAt = out.User.CreatedAt
		}
		out.User = incoming
		res.UserUpdated = true
	})

	res.guard(models.CollectionTasks, func() {
		seen := idSet(out.Tasks, func(t models.Task) string { return t.ID })
		tasks := slices.Clone(out.Tasks)
		added := 0
		for i, t := range snap.Tasks {
			if !usableTask(i, t, &res) {
				continue
			}
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			tasks = append(tasks, t)
			added++
		}
		out.Tasks = tasks
		res.TasksImported = added
	})

	res.guard(models.CollectionGroups, func() {
		seen := idSet(out.Groups, func(g models.Group) string { return g.ID })
		issued := out.IssuedCodes()
		history := slices.Clone(out.ShareCodes)
		groups := make([]models.Group, len(out.Groups), len(out.Groups)+len(snap.Groups))
		copy(groups, out.Groups)
		added := 0
		for i, g := range snap.Groups {
			if g.ID == "" {
				res.warn(Warning{Collection: models.CollectionGroups, Index: i, Reason: "missing id"})
				continue
			}
			if _, ok := seen[g.ID]; ok {
				continue
			}
			g = sanitizeGroup(i, g, &res)
			if _, taken := issued[g.ShareCode]; taken || g.ShareCode == "" {
				g.ShareCode = e.reissue(i, g, issued, &res)
			}
			issued[g.ShareCode] = struct{}{}
			history = appendCode(history, g.ShareCode)
			seen[g.ID] = struct{}{}
			groups = append(groups, g)
			added++
		}
		for _, g := range out.Groups {
			history = appendCode(history, g.ShareCode)
		}
		out.Groups = groups
		out.ShareCodes = history
		res.GroupsImported = added
	})

	res.guard(models.CollectionFriends, func() {
		seen := idSet(out.Friends, func(f models.Friend) string { return f.ID })
		friends := slices.Clone(out.Friends)
		added := 0
		for i, f := range snap.Friends {
			if f.ID == "" {
				res.warn(Warning{Collection: models.CollectionFriends, Index: i, Reason: "missing id"})
				continue
			}
			if _, ok := seen[f.ID]; ok {
				continue
			}
			seen[f.ID] = struct{}{}
			friends = append(friends, f)
			added++
		}
		out.Friends = friends
		res.FriendsImported = added
	})

	res.guard(models.CollectionStats, func() {
		if snap.Stats == nil {
			return
		}
		if out.Stats == nil {
			out.Stats = snap.Stats.Clone()
			res.StatsUpdated = true
			return
		}
		merged := out.Stats.Clone()
		merged.TotalTasksCompleted = max(merged.TotalTasksCompleted, snap.Stats.TotalTasksCompleted)
		merged.LongestStreak = max(merged.LongestStreak, snap.Stats.LongestStreak)
		merged.TotalStudyMinutes = max(merged.TotalStudyMinutes, snap.Stats.TotalStudyMinutes)
		for i, a := range snap.Stats.Achievements {
			if a.ID == "" {
				res.warn(Warning{Collection: models.CollectionStats, Index: i, Reason: "achievement missing id"})
				continue
			}
			if merged.HasAchievement(a.ID) {
				continue
			}
			merged.Achievements = append(merged.Achievements, a)
		}
		out.Stats = merged
		res.StatsUpdated = true
	})

	return out, res
}

// guard runs one collection's step. A panic abandons that collection only:
// steps assign to the output state last, so nothing half-written survives.
func (r *Result) guard(collection string, step func()) {
	defer func() {
		if p := recover(); p != nil {
			r.warn(Warning{Collection: collection, Index: -1, Reason: fmt.Sprintf("collection not applied: %v", p)})
		}
	}()
	step()
}

func (e *Engine) reissue(i int, g models.Group, taken map[string]struct{}, res *Result) string {
	code := e.codes.Generate(taken)
	reason := "share code already issued; reissued as " + code
	if g.ShareCode == "" {
		reason = "missing share code; issued " + code
	}
	res.warn(Warning{Collection: models.CollectionGroups, Index: i, ID: g.ID, Reason: reason})
	return code
}

func usableUser(u *models.User, res *Result) (*models.User, bool) {
	// An export taken before any profile existed carries an empty user object.
	if u == nil || u.IsEmpty() {
		return nil, false
	}
	if u.ID == "" {
		res.warn(Warning{Collection: models.CollectionUser, Index: -1, Reason: "missing id; live profile kept"})
		return nil, false
	}
	c := *u
	return &c, true
}

func usableTask(i int, t models.Task, res *Result) bool {
	switch {
	case t.ID == "":
		res.warn(Warning{Collection: models.CollectionTasks, Index: i, Reason: "missing id"})
		return false
	case !validEnums(t):
		res.warn(Warning{Collection: models.CollectionTasks, Index: i, ID: t.ID, Reason: fmt.Sprintf("invalid category %q or status %q", t.Category, t.Status)})
		return false
	case !t.IsConsistent():
		res.warn(Warning{Collection: models.CollectionTasks, Index: i, ID: t.ID, Reason: "completedAt does not match status"})
		return false
	}
	return true
}

// validEnums catches tasks whose category or status key was absent, which
// decoding leaves empty without going through the enum parsers.
func validEnums(t models.Task) bool {
	if _, err := models.ParseCategory(string(t.Category)); err != nil {
		return false
	}
	_, err := models.ParseStatus(string(t.Status))
	return err == nil
}

// sanitizeGroup drops the owner and duplicates from the member list.
func sanitizeGroup(i int, g models.Group, res *Result) models.Group {
	g = g.Clone()
	members := make([]string, 0, len(g.MemberIDs))
	dropped := 0
	for _, id := range g.MemberIDs {
		if id == "" || id == g.OwnerID || slices.Contains(members, id) {
			dropped++
			continue
		}
		members = append(members, id)
	}
	if dropped > 0 {
		res.warn(Warning{Collection: models.CollectionGroups, Index: i, ID: g.ID, Reason: fmt.Sprintf("dropped %d invalid member id(s)", dropped)})
	}
	g.MemberIDs = members
	return g
}

func idSet[T any](items []T, id func(T) string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[id(it)] = struct{}{}
	}
	return set
}

func mergeSets(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func appendCode(codes []string, code string) []string {
	if code == "" || slices.Contains(codes, code) {
		return codes
	}
	return append(codes, code)
}
