// Package store persists the live collections (user, tasks, groups, friends,
// stats and the share-code history) as JSON documents in a single gorm table.
//
// Each collection is one row keyed by name, so reading or writing a whole
// collection is a single statement, and SaveState/Update write every collection
// inside one transaction: readers never observe a half-applied import.
//
// # Usage
//
//	st := store.New(db)
//	if err := st.Migrate(ctx); err != nil {
//	    return err
//	}
//	err := st.Update(ctx, func(s *models.State) error {
//	    s.Tasks = append(s.Tasks, task)
//	    return nil
//	})
package store
