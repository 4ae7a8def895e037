package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vitrinecms/vitrine/internal/auth"
	"github.com/vitrinecms/vitrine/internal/model"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
		Long:  "Create and list administrative users who can manage site content through the admin API.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())

	return cmd
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		username string
		email    string
		password string
		fullName string
		super    bool
		regions  []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin account",
		Example: `  vitrine admin create --username root --email root@example.in --super
  vitrine admin create --username editor --email e@example.ae --regions AE  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(username, email, password, fullName, super, regions)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")
	cmd.Flags().StringVar(&fullName, "name", "", "Display name")
	cmd.Flags().BoolVar(&super, "super", false, "Grant super-admin access (all regions, account management)")
	cmd.Flags().StringSliceVar(&regions, "regions", nil, "Assigned region codes, e.g. IN,AE")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminCreate(username, email, password, fullName string, super bool, regions []string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}
	if !super && len(regions) == 0 {
		return fmt.Errorf("a non-super admin needs at least one region (--regions)")
	}

	if password == "" {
		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		password = string(pwBytes)

		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		fmt.Println()

		if password != string(confirmBytes) {
			return fmt.Errorf("passwords do not match")
		}
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	for i, code := range regions {
		regions[i] = strings.ToUpper(strings.TrimSpace(code))
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	admin := &model.Admin{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		IsSuperAdmin: super,
		IsActive:     true,
		Regions:      regions,
	}
	if err := st.CreateAdmin(context.Background(), admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Created admin %q (id=%d)\n", username, admin.ID)
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(jsonOutput bool) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	admins, err := st.ListAdmins(context.Background())
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(admins)
	}

	if len(admins) == 0 {
		fmt.Println("No admin accounts configured. Use 'vitrine admin create' to create one.")
		return nil
	}

	fmt.Printf("%-20s %-28s %-7s %-7s %s\n", "USERNAME", "EMAIL", "SUPER", "ACTIVE", "REGIONS")
	fmt.Printf("%-20s %-28s %-7s %-7s %s\n", "--------", "-----", "-----", "------", "-------")
	for _, a := range admins {
		super, active := "no", "no"
		if a.IsSuperAdmin {
			super = "yes"
		}
		if a.IsActive {
			active = "yes"
		}
		regions := strings.Join(a.Regions, ",")
		if a.IsSuperAdmin {
			regions = "*"
		}
		fmt.Printf("%-20s %-28s %-7s %-7s %s\n", a.Username, a.Email, super, active, regions)
	}

	return nil
}
