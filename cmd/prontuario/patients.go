package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lnclinic/prontuario/internal/domain"
	"github.com/lnclinic/prontuario/internal/records"
)

func patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Browse and create patients",
	}
	cmd.AddCommand(patientsListCmd())
	cmd.AddCommand(patientsCreateCmd())
	return cmd
}

func patientsListCmd() *cobra.Command {
	var (
		search  string
		first   int
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients, optionally filtered by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireAuth("/patients"); err != nil {
				return err
			}

			var patients []domain.Patient
			hasMore := false
			if offline {
				patients, err = a.records.ListPatientsOffline(search, first)
				if err != nil {
					return err
				}
			} else {
				page, err := a.records.ListPatients(cmd.Context(), search, first)
				if err != nil {
					return err
				}
				patients = page.Patients
				hasMore = page.HasNextPage
			}

			if len(patients) == 0 {
				fmt.Println("No patients found. Add one with \"prontuario patients create\".")
				return nil
			}

			printPatientTable(os.Stdout, patients)
			if hasMore {
				fmt.Printf("More available: rerun with --first %d\n", first+5)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by full name (case- and accent-insensitive)")
	cmd.Flags().IntVar(&first, "first", 10, "number of patients to fetch")
	cmd.Flags().BoolVar(&offline, "offline", false, "serve from the local cache instead of the API")

	return cmd
}

func printPatientTable(w io.Writer, patients []domain.Patient) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tBORN\tLAST VISIT")
	for _, p := range patients {
		last := "-"
		if p.LatestEvaluation != nil {
			last = formatDateTime(*p.LatestEvaluation)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", p.ID, p.FullName, p.Age, formatDate(p.BirthDate), last)
	}
	tw.Flush()
}

func patientsCreateCmd() *cobra.Command {
	var (
		name      string
		birthDate string
		cpf       string
		email     string
		phone     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireAuth("/patients"); err != nil {
				return err
			}

			born, err := parseDate(birthDate)
			if err != nil {
				return err
			}

			patient, created, err := a.records.CreatePatient(cmd.Context(), records.PatientInput{
				FullName:  name,
				BirthDate: born,
				CPF:       cpf,
				Email:     email,
				Phone:     phone,
			})
			if err != nil {
				return err
			}

			if created {
				fmt.Printf("Patient created: %s (%s)\n", patient.FullName, patient.ID)
			} else {
				fmt.Printf("Patient already exists: %s (%s)\n", patient.FullName, patient.ID)
				fmt.Printf("See them with \"prontuario patient show %s\"\n", patient.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cpf, "cpf", "", "CPF")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&phone, "phone", "", "phone")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("birth-date")

	return cmd
}

func patientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Show, edit, or delete one patient",
	}
	cmd.AddCommand(patientShowCmd())
	cmd.AddCommand(patientEditCmd())
	cmd.AddCommand(patientDeleteCmd())
	return cmd
}

func patientShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <patient-id>",
		Short: "Show a patient's data and progress notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()

			id := args[0]
			if err := a.requireAuth("/patient/" + id); err != nil {
				return err
			}

			record, err := a.records.GetPatient(cmd.Context(), id)
			if err != nil {
				return err
			}

			p := record.Patient
			fmt.Printf("%s (%d)\n", p.FullName, p.Age)
			fmt.Printf("Born: %s\n", formatDate(p.BirthDate))
			if p.CPF != "" {
				fmt.Printf("CPF: %s\n", p.CPF)
			}
			if p.Email != "" {
				fmt.Printf("Email: %s\n", p.Email)
			}
			if p.Phone != "" {
				fmt.Printf("Phone: %s\n", p.Phone)
			}

			if len(record.Evaluations) == 0 {
				fmt.Println("\nNo progress notes.")
				return nil
			}
			fmt.Printf("\nProgress notes (%d):\n", len(record.Evaluations))
			for _, e := range record.Evaluations {
				fmt.Printf("\n--- %s | %s (%s), %s - %s\n",
					formatDateTime(e.CreatedAt),
					e.Collaborator.FullName, e.Collaborator.Role,
					e.Service.Name, e.Service.Unit.Name,
				)
				fmt.Println(e.Content)
			}
			return nil
		},
	}
}

func patientEditCmd() *cobra.Command {
	var (
		name      string
		birthDate string
		cpf       string
		email     string
		phone     string
	)

	cmd := &cobra.Command{
		Use:   "edit <patient-id>",
		Short: "Edit a patient's demographic data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()

			id := args[0]
			if err := a.requireAuth("/patient/" + id); err != nil {
				return err
			}
			ctx := cmd.Context()

			record, err := a.records.GetPatient(ctx, id)
			if err != nil {
				return err
			}
			current := record.Patient

			// Unset flags keep the current values, like a form pre-filled
			// with the displayed data.
			in := records.PatientInput{
				FullName:  current.FullName,
				BirthDate: current.BirthDate,
				CPF:       current.CPF,
				Email:     current.Email,
				Phone:     current.Phone,
			}
			if cmd.Flags().Changed("name") {
				in.FullName = name
			}
			if cmd.Flags().Changed("birth-date") {
				born, err := parseDate(birthDate)
				if err != nil {
					return err
				}
				in.BirthDate = born
			}
			if cmd.Flags().Changed("cpf") {
				in.CPF = cpf
			}
			if cmd.Flags().Changed("email") {
				in.Email = email
			}
			if cmd.Flags().Changed("phone") {
				in.Phone = phone
			}

			updated, err := a.records.UpdatePatient(ctx, current, in)
			if err != nil {
				return noticeOrError(err)
			}
			if !updated {
				fmt.Println("The server reported no update.")
				return nil
			}
			fmt.Println("Patient updated.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cpf, "cpf", "", "CPF")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&phone, "phone", "", "phone")

	return cmd
}

func patientDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <patient-id>",
		Short: "Permanently delete a patient and their whole history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes (this cannot be undone)")
			}

			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()

			id := args[0]
			if err := a.requireAuth("/patient/" + id); err != nil {
				return err
			}

			deleted, err := a.records.DeletePatient(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("the server did not confirm the deletion of %s", id)
			}
			fmt.Println("Patient removed.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	return cmd
}

func noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Record progress notes",
	}
	cmd.AddCommand(noteAddCmd())
	return cmd
}

func noteAddCmd() *cobra.Command {
	var (
		message string
		file    string
		service string
	)

	cmd := &cobra.Command{
		Use:   "add <patient-id>",
		Short: "Record a progress note (markdown) for a patient",
		Long: "Record a progress note for a patient. The content comes from --message,\n" +
			"--file, or stdin, and is attached to the clinical service selected at\n" +
			"sign-in unless --service overrides it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()

			id := args[0]
			if err := a.requireAuth("/patient/" + id); err != nil {
				return err
			}

			content := message
			switch {
			case content != "":
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read note file: %w", err)
				}
				content = string(data)
			default:
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read note from stdin: %w", err)
				}
				content = string(data)
			}

			if service == "" {
				service, _ = a.jar.ServiceID()
			}

			eval, created, err := a.records.CreateEvaluation(cmd.Context(), id, service, content)
			if err != nil {
				return err
			}
			if !created {
				fmt.Println("An identical note already exists; nothing was recorded.")
				return nil
			}
			fmt.Printf("Note %s recorded at %s.\n", eval.ID, formatDateTime(eval.CreatedAt))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "note content")
	cmd.Flags().StringVar(&file, "file", "", "read note content from a file")
	cmd.Flags().StringVar(&service, "service", "", "clinical service ID (defaults to the one chosen at sign-in)")

	return cmd
}
