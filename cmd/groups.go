package cmd

import (
	"context"
	"fmt"

	"studyhub/core/metrics"
	"studyhub/core/models"
	"studyhub/feature/groups"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for groups commands
	groupDescription string
	groupSchool      string
	groupClassName   string
	groupTeacher     string
)

// groupsCmd is the parent command for study group operations. Commands act as
// the local profile.
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage study groups as the local user",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the groups the local user owns or belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := groupsService(cmd.Context())
		if err != nil {
			return err
		}
		list, err := svc.List(cmd.Context(), "")
		if err != nil {
			return err
		}
		for _, g := range list {
			fmt.Printf("%s  %s  %s  (%d members)\n", g.ShareCode, g.ID, g.Name, len(g.MemberIDs))
		}
		return nil
	},
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group and print its share code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := groupsService(cmd.Context())
		if err != nil {
			return err
		}
		g, err := svc.Create(cmd.Context(), "", args[0], groups.Patch{
			Description:  optional(groupDescription),
			School:       optional(groupSchool),
			ClassName:    optional(groupClassName),
			TeacherEmail: optional(groupTeacher),
		})
		if err != nil {
			return err
		}
		printGroup(l, "Group created", g)
		return nil
	},
}

var groupsJoinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Join a group by its share code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := groupsService(cmd.Context())
		if err != nil {
			return err
		}
		g, err := svc.JoinByCode(cmd.Context(), args[0], "")
		if err != nil {
			return err
		}
		printGroup(l, "Joined group", g)
		return nil
	},
}

var groupsLeaveCmd = &cobra.Command{
	Use:   "leave <group-id>",
	Short: "Leave a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := groupsService(cmd.Context())
		if err != nil {
			return err
		}
		g, err := svc.Leave(cmd.Context(), args[0], "")
		if err != nil {
			return err
		}
		printGroup(l, "Left group", g)
		return nil
	},
}

var groupsCodeCmd = &cobra.Command{
	Use:   "code <group-id>",
	Short: "Issue a new share code for an owned group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := groupsService(cmd.Context())
		if err != nil {
			return err
		}
		g, err := svc.RegenerateCode(cmd.Context(), args[0], "")
		if err != nil {
			return err
		}
		printGroup(l, "Share code regenerated", g)
		return nil
	},
}

func init() {
	groupsCreateCmd.Flags().StringVar(&groupDescription, "description", "", "Group description")
	groupsCreateCmd.Flags().StringVar(&groupSchool, "school", "", "School name")
	groupsCreateCmd.Flags().StringVar(&groupClassName, "class", "", "Class name")
	groupsCreateCmd.Flags().StringVar(&groupTeacher, "teacher-email", "", "Teacher email")

	groupsCmd.AddCommand(groupsListCmd, groupsCreateCmd, groupsJoinCmd, groupsLeaveCmd, groupsCodeCmd)
	RootCmd.AddCommand(groupsCmd)
}

func groupsService(ctx context.Context) (*groups.Service, *zap.Logger, error) {
	e, err := setup(ctx)
	if err != nil {
		return nil, nil, err
	}
	return groups.NewFeature(e.store, metrics.NewNop(), e.logger).Service(), e.logger, nil
}

func printGroup(l *zap.Logger, msg string, g models.Group) {
	l.Info(msg,
		zap.String("id", g.ID),
		zap.String("name", g.Name),
		zap.String("share_code", g.ShareCode),
		zap.Int("members", len(g.MemberIDs)),
	)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
