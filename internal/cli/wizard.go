package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/wizard"
)

// Navigation commands accepted at every prompt
const (
	cmdBack = ":b"
	cmdQuit = ":q"
)

var errInputClosed = errors.New("input closed")

func newWizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Fill in the qualification questionnaire and register",
		RunE: func(cmd *cobra.Command, args []string) error {
			var contact *wizard.Contact
			hooks := wizard.Hooks{
				OnComplete: func(c wizard.Contact) { contact = &c },
				OnContinue: func(wizard.Contact) {
					fmt.Printf("Votre espace vous attend : %s\n", viper.GetString("app_url"))
				},
				OnClose: func() { fmt.Println("Questionnaire fermé.") },
			}

			session := wizard.NewSession(apiClient, hooks, cliLogger())
			r := newWizardRunner(os.Stdin, os.Stdout, session)
			if err := r.run(context.Background()); err != nil {
				return err
			}

			if contact != nil && getOutputFormat() != "table" {
				return printOutput(contact)
			}
			return nil
		},
	}
}

// wizardRunner renders a wizard session as a line-oriented dialogue
type wizardRunner struct {
	in      *bufio.Reader
	out     io.Writer
	session *wizard.Session
}

func newWizardRunner(in io.Reader, out io.Writer, session *wizard.Session) *wizardRunner {
	return &wizardRunner{in: bufio.NewReader(in), out: out, session: session}
}

func (r *wizardRunner) run(ctx context.Context) error {
	for {
		st := r.session.State()
		if st.Closed {
			return nil
		}

		if st.ConfirmingClose {
			answer, err := r.ask("Quitter et perdre vos réponses ? (o/N) ")
			if err != nil {
				return err
			}
			if isYes(answer) {
				r.session.ConfirmClose()
			} else {
				r.session.CancelClose()
			}
			continue
		}

		r.header(st)

		var err error
		switch st.Current {
		case wizard.StepWelcome:
			err = r.welcome()
		case wizard.StepChallenges:
			err = r.challenges()
		case wizard.StepContact:
			err = r.contact(ctx)
		case wizard.StepConfirmation:
			err = r.confirmation(st)
		default:
			err = r.singleChoice(st)
		}
		if err != nil {
			return err
		}
	}
}

func (r *wizardRunner) header(st wizard.State) {
	step := int(st.Current) + 1
	bar := strings.Repeat("#", step) + strings.Repeat(".", wizard.TotalSteps-step)
	fmt.Fprintf(r.out, "\nÉtape %d sur %d [%s]\n", step, wizard.TotalSteps, bar)
	if st.Error != "" {
		fmt.Fprintf(r.out, "! %s\n", st.Error)
	}
}

func (r *wizardRunner) ask(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errInputClosed
	}
	return strings.TrimSpace(line), nil
}

// navigate applies a navigation command and reports whether input was one
func (r *wizardRunner) navigate(input string) bool {
	switch input {
	case cmdBack:
		r.session.Retreat()
		return true
	case cmdQuit:
		r.session.RequestClose()
		return true
	}
	return false
}

func (r *wizardRunner) welcome() error {
	fmt.Fprintln(r.out, "Quelques questions pour personnaliser votre programme Sleep Harmony.")
	input, err := r.ask("[Entrée] pour commencer, :q pour quitter : ")
	if err != nil {
		return err
	}
	if !r.navigate(input) {
		r.session.Advance()
	}
	return nil
}

func (r *wizardRunner) printOptions(q qualification.Question, selected func(string) bool) {
	fmt.Fprintln(r.out, q.Prompt)
	for i, o := range q.Options {
		mark := " "
		if selected(o.Value) {
			mark = "x"
		}
		fmt.Fprintf(r.out, "  [%s] %d. %s\n", mark, i+1, o.Label)
	}
}

func (r *wizardRunner) singleChoice(st wizard.State) error {
	for _, field := range wizard.Fields(st.Current) {
		q, _ := qualification.Lookup(field)
		current := answerOf(r.session.State().Answers, field)
		r.printOptions(q, func(v string) bool { return v == current })

		input, err := r.ask("Votre choix (:b retour, :q quitter) : ")
		if err != nil {
			return err
		}
		if r.navigate(input) {
			return nil
		}
		if input == "" && current != "" {
			continue
		}

		value, ok := optionAt(q, input)
		if !ok {
			fmt.Fprintln(r.out, "Choix invalide.")
			return nil
		}
		if err := r.session.Select(field, value); err != nil {
			fmt.Fprintln(r.out, err)
			return nil
		}
	}

	r.session.Advance()
	return nil
}

func (r *wizardRunner) challenges() error {
	q, _ := qualification.Lookup(qualification.FieldMainChallenges)
	for {
		chosen := r.session.State().Answers.MainChallenges
		r.printOptions(q, func(v string) bool {
			for _, c := range chosen {
				if c == v {
					return true
				}
			}
			return false
		})

		input, err := r.ask("Numéros à cocher/décocher, [Entrée] pour continuer : ")
		if err != nil {
			return err
		}
		if r.navigate(input) {
			return nil
		}
		if input == "" {
			if !r.session.State().CanAdvance() {
				fmt.Fprintln(r.out, "Sélectionnez au moins un défi.")
				continue
			}
			r.session.Advance()
			return nil
		}

		for _, field := range strings.FieldsFunc(input, func(c rune) bool { return c == ',' || c == ' ' }) {
			value, ok := optionAt(q, field)
			if !ok {
				fmt.Fprintf(r.out, "Choix invalide : %s\n", field)
				continue
			}
			if err := r.session.Toggle(qualification.FieldMainChallenges, value); err != nil {
				fmt.Fprintln(r.out, err)
			}
		}
	}
}

func (r *wizardRunner) contact(ctx context.Context) error {
	st := r.session.State()
	fmt.Fprintln(r.out, "Recevez votre programme personnalisé")

	firstName, err := r.askDefault("Prénom", st.FirstName)
	if err != nil || r.navigate(firstName) {
		return err
	}
	email, err := r.askDefault("Email", st.Email)
	if err != nil || r.navigate(email) {
		return err
	}
	consent, err := r.ask("J'accepte de recevoir des emails de Sleep Harmony (o/N) : ")
	if err != nil || r.navigate(consent) {
		return err
	}

	r.session.SetContact(firstName, email, isYes(consent))
	if !r.session.State().CanSubmit() {
		fmt.Fprintln(r.out, "Prénom, email et accord sont nécessaires.")
		return nil
	}

	fmt.Fprintln(r.out, "Envoi en cours...")
	// A failure is shown from the state on the next round
	_ = r.session.Submit(ctx)
	return nil
}

func (r *wizardRunner) askDefault(label, current string) (string, error) {
	prompt := label + " : "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s] : ", label, current)
	}
	input, err := r.ask(prompt)
	if err != nil {
		return "", err
	}
	if input == "" {
		return current, nil
	}
	return input, nil
}

func (r *wizardRunner) confirmation(st wizard.State) error {
	c := st.Contact()
	fmt.Fprintf(r.out, "Merci %s ! Votre programme arrive à %s.\n", c.FirstName, c.Email)
	if _, err := r.ask("[Entrée] pour accéder à votre espace : "); err != nil {
		return err
	}
	r.session.Continue()
	return nil
}

func answerOf(a qualification.Answers, field qualification.Field) string {
	switch field {
	case qualification.FieldBabyAge:
		return a.BabyAge
	case qualification.FieldRelationDuration:
		return a.RelationDuration
	case qualification.FieldRelationStatus:
		return a.RelationStatus
	case qualification.FieldUrgencyLevel:
		return a.UrgencyLevel
	case qualification.FieldMotivation:
		return a.Motivation
	}
	return ""
}

func optionAt(q qualification.Question, input string) (string, bool) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(q.Options) {
		return "", false
	}
	return q.Options[n-1].Value, true
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "o", "oui", "y", "yes":
		return true
	}
	return false
}
