package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veenapanicker/nexus/cmd/cli/client"
	"github.com/veenapanicker/nexus/internal/access"
	"github.com/veenapanicker/nexus/internal/models"
	"github.com/veenapanicker/nexus/internal/report"
)

func apiClient() *client.APIClient {
	return client.NewAPIClient(viper.GetString("server"))
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Nexus and store a session token",
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		token, err := apiClient().Login(email, password)
		if err != nil {
			fmt.Printf("Login failed: %v\n", err)
			return
		}

		viper.Set("token", token)
		if err := viper.WriteConfig(); err != nil {
			if err := viper.SafeWriteConfig(); err != nil {
				fmt.Printf("Warning: could not save token: %v\n", err)
			}
		}
		fmt.Println("Login successful")
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List available reports",
	Run: func(cmd *cobra.Command, args []string) {
		reports, err := apiClient().ListReports()
		if err != nil {
			fmt.Printf("Error listing reports: %v\n", err)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
		fmt.Fprintln(w, "ID\tNAME\tPRODUCT\tCATEGORY\tLAST GENERATED\t")
		for _, r := range reports {
			last := "never"
			if r.LastGenerated != nil {
				last = r.LastGenerated.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", r.ID, r.Name, r.Product, r.Category, last)
		}
		w.Flush()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <report-id>",
	Short: "Generate a report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		fmt.Printf("Generating %s as %s...\n", args[0], format)
		artifact, err := apiClient().GenerateReport(args[0], models.ReportFormat(format))
		if err != nil {
			fmt.Printf("Error generating report: %v\n", err)
			return
		}
		fmt.Printf("Generated %s (%s, %s), expires %s\n",
			artifact.ReportName, artifact.Format, artifact.FileSize,
			artifact.ExpiresAt.Format("2006-01-02"))
	},
}

var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "List generated reports",
	Run: func(cmd *cobra.Command, args []string) {
		downloads, err := apiClient().ListDownloads()
		if err != nil {
			fmt.Printf("Error listing downloads: %v\n", err)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
		fmt.Fprintln(w, "ID\tREPORT\tFORMAT\tSIZE\tGENERATED\tEXPIRES\t")
		for _, d := range downloads {
			expires := d.ExpiresAt.Format("2006-01-02")
			if d.ExpiresSoon {
				expires += " (soon)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				d.ID, d.ReportName, d.Format, d.FileSize,
				d.GeneratedAt.Format("2006-01-02"), expires)
		}
		w.Flush()
	},
}

var deleteDownloadCmd = &cobra.Command{
	Use:   "delete <download-id>",
	Short: "Delete a generated report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := apiClient().DeleteDownload(args[0]); err != nil {
			fmt.Printf("Error deleting download: %v\n", err)
			return
		}
		fmt.Println("Deleted")
	},
}

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "List report schedules",
	Run: func(cmd *cobra.Command, args []string) {
		schedules, err := apiClient().ListSchedules()
		if err != nil {
			fmt.Printf("Error listing schedules: %v\n", err)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
		fmt.Fprintln(w, "ID\tREPORT\tFREQUENCY\tFORMAT\tNEXT RUN\tACTIVE\t")
		for _, s := range schedules {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t\n",
				s.ID, s.ReportName, s.Frequency, s.Format,
				s.NextRun.Format("2006-01-02 15:04"), s.IsActive)
		}
		w.Flush()
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <report-id>",
	Short: "Create a report schedule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		frequency, _ := cmd.Flags().GetString("frequency")
		format, _ := cmd.Flags().GetString("format")
		delivery, _ := cmd.Flags().GetString("delivery")
		email, _ := cmd.Flags().GetString("email")

		cfg := report.ScheduleConfig{
			Frequency:      models.Frequency(frequency),
			Format:         models.ReportFormat(format),
			DeliveryMethod: models.DeliveryMethod(delivery),
			Email:          email,
		}
		if cmd.Flags().Changed("day-of-week") {
			d, _ := cmd.Flags().GetInt("day-of-week")
			cfg.DayOfWeek = &d
		}
		if cmd.Flags().Changed("day-of-month") {
			d, _ := cmd.Flags().GetInt("day-of-month")
			cfg.DayOfMonth = &d
		}

		sched, err := apiClient().ScheduleReport(args[0], cfg)
		if err != nil {
			fmt.Printf("Error creating schedule: %v\n", err)
			return
		}
		fmt.Printf("Scheduled %s %s, next run %s\n",
			sched.ReportName, sched.Frequency, sched.NextRun.Format("2006-01-02 15:04"))
	},
}

var pauseScheduleCmd = &cobra.Command{
	Use:   "pause <schedule-id>",
	Short: "Pause or resume a schedule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := apiClient().ToggleSchedule(args[0]); err != nil {
			fmt.Printf("Error toggling schedule: %v\n", err)
			return
		}
		fmt.Println("Toggled")
	},
}

var deleteScheduleCmd = &cobra.Command{
	Use:   "unschedule <schedule-id>",
	Short: "Delete a schedule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := apiClient().DeleteSchedule(args[0]); err != nil {
			fmt.Printf("Error deleting schedule: %v\n", err)
			return
		}
		fmt.Println("Deleted")
	},
}

var licensesCmd = &cobra.Command{
	Use:   "licenses",
	Short: "List license pools",
	Run: func(cmd *cobra.Command, args []string) {
		showStats, _ := cmd.Flags().GetBool("stats")
		c := apiClient()

		if showStats {
			stats, err := c.LicenseStats()
			if err != nil {
				fmt.Printf("Error getting license stats: %v\n", err)
				return
			}
			fmt.Printf("Total seats: %d\nUsed seats:  %d\nAvailable:   %d\nExpiring:    %d\nUtilization: %d%%\n",
				stats.Total, stats.Used, stats.Available, stats.Expiring, stats.UtilizationRate)
			return
		}

		licenses, err := c.ListLicenses()
		if err != nil {
			fmt.Printf("Error listing licenses: %v\n", err)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
		fmt.Fprintln(w, "ID\tPRODUCT\tSEATS\tEXPIRES\tSTATUS\t")
		for _, l := range licenses {
			fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\t%s\t\n",
				l.ID, l.Product, l.UsedSeats, l.TotalSeats,
				l.ExpirationDate.Format("2006-01-02"), l.Status)
		}
		w.Flush()
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run an LMS enrollment sync",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Syncing enrollment data...")
		start := time.Now()
		record, err := apiClient().RunSync()
		if err != nil {
			fmt.Printf("Error running sync: %v\n", err)
			return
		}
		fmt.Printf("Sync %s in %s: %d courses updated, %d new enrollments, %d dropped\n",
			record.Status, time.Since(start).Round(time.Millisecond),
			record.CoursesUpdated, record.NewEnrollments, record.DroppedStudents)
	},
}

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "List administrators",
	Run: func(cmd *cobra.Command, args []string) {
		admins, err := apiClient().ListAdmins()
		if err != nil {
			fmt.Printf("Error listing admins: %v\n", err)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tINSTITUTION\tSTATUS\t")
		for _, a := range admins {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				a.ID, a.Name, a.Email, a.Role, a.Institution, a.Status)
		}
		w.Flush()
	},
}

var inviteCmd = &cobra.Command{
	Use:   "invite <email>",
	Short: "Invite a new administrator",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		institution, _ := cmd.Flags().GetString("institution")
		products, _ := cmd.Flags().GetStringSlice("products")
		sendEmail, _ := cmd.Flags().GetBool("send-email")

		inv := access.Invite{
			Name:        name,
			Email:       args[0],
			Role:        models.AdminRole(role),
			Institution: institution,
			SendEmail:   sendEmail,
		}
		for _, p := range products {
			inv.Products = append(inv.Products, models.Product(p))
		}

		admin, err := apiClient().InviteAdmin(inv)
		if err != nil {
			fmt.Printf("Error inviting admin: %v\n", err)
			return
		}
		fmt.Printf("Invited %s (%s) as %s\n", admin.Name, admin.Email, admin.Role)
	},
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.MarkFlagRequired("email")

	generateCmd.Flags().StringP("format", "f", "csv", "Output format (csv, xlsx, both)")

	scheduleCmd.Flags().String("frequency", "weekly", "Frequency (daily, weekly, monthly, term-end)")
	scheduleCmd.Flags().StringP("format", "f", "csv", "Output format (csv, xlsx, both)")
	scheduleCmd.Flags().String("delivery", "email", "Delivery method (email, download-center, both)")
	scheduleCmd.Flags().String("email", "", "Delivery address for email schedules")
	scheduleCmd.Flags().Int("day-of-week", 0, "Day of week for weekly schedules (0=Sunday)")
	scheduleCmd.Flags().Int("day-of-month", 1, "Day of month for monthly schedules")

	licensesCmd.Flags().Bool("stats", false, "Show aggregate seat totals")

	inviteCmd.Flags().String("name", "", "Full name")
	inviteCmd.Flags().String("role", "institutional_admin", "Role preset")
	inviteCmd.Flags().String("institution", "", "Institution name")
	inviteCmd.Flags().StringSlice("products", nil, "Products to grant access to")
	inviteCmd.Flags().Bool("send-email", true, "Send an invitation email")

	downloadsCmd.AddCommand(deleteDownloadCmd)
	schedulesCmd.AddCommand(pauseScheduleCmd, deleteScheduleCmd)
	adminsCmd.AddCommand(inviteCmd)
}
