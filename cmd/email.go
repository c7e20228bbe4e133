/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"net/smtp"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tastemap/playlist-tools/internal/profile"
)

type SendEmailConfig struct {
	Profile        string
	From           string
	To             string
	Types          []string
	DryRun         bool
	SMTPUsername   string
	SMTPPassword   string
	SendgridApiKey string
}

var emailCmd = &cobra.Command{
	Use:   "email <address> <analysis_name...>",
	Short: "Sends an email report",
	Long: `Emails the profile's stats to the specified address.
  <analysis_name> is one or more of: top-genres, rare-tracks, trends, rating.
  Delivery uses Sendgrid when sendgrid_api_key is configured, SMTP otherwise.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendEmailConfig{
			Profile:        viper.GetString("profile"),
			From:           viper.GetString("from"),
			To:             args[0],
			Types:          args[1:],
			DryRun:         viper.GetBool("dryRun"),
			SMTPUsername:   viper.GetString("smtp_username"),
			SMTPPassword:   viper.GetString("smtp_password"),
			SendgridApiKey: viper.GetString("sendgrid_api_key"),
		}
		err := sendEmail(cmd.Context(), config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	var from string
	emailCmd.Flags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))

	var smtpUsername string
	emailCmd.Flags().StringVar(&smtpUsername, "smtp_username", "", "SMTP username")
	viper.BindPFlag("smtp_username", emailCmd.Flags().Lookup("smtp_username"))

	var smtpPassword string
	emailCmd.Flags().StringVar(&smtpPassword, "smtp_password", "", "SMTP password")
	viper.BindPFlag("smtp_password", emailCmd.Flags().Lookup("smtp_password"))
}

func sendEmail(ctx context.Context, config SendEmailConfig) error {
	analysers := make([]Analyser, 0)
	for _, name := range config.Types {
		analyser, err := getAnalyserFromName(name)
		if err != nil {
			return fmt.Errorf("Invalid analysis_name: %s", name)
		}
		analysers = append(analysers, analyser)
	}

	log := newLogger()
	svc, cleanup, err := newService(log)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := svc.Stats(ctx, config.Profile)
	if err != nil {
		return fmt.Errorf("computing stats: %w", err)
	}

	subject, out, err := generateEmailContent(config, stats, analysers)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, out)
		return nil
	}

	if config.SendgridApiKey != "" {
		from := mail.NewEmail("playlist-tools", config.From)
		to := mail.NewEmail(config.To, config.To)
		message := mail.NewSingleEmail(from, subject, to, out, out)
		client := sendgrid.NewSendClient(config.SendgridApiKey)
		if _, err := client.Send(message); err != nil {
			return fmt.Errorf("sendEmail: %w", err)
		}
		return nil
	}

	if config.SMTPUsername == "" || config.SMTPPassword == "" {
		return fmt.Errorf("smtp_username and smtp_password must be set in order to send emails")
	}

	msg := "From: playlist-tools <" + config.From + ">\r\n" +
		"To: " + config.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		out

	auth := smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, "smtp.gmail.com")
	if err := smtp.SendMail("smtp.gmail.com:587", auth, config.From, []string{config.To}, []byte(msg)); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	return nil
}

func generateEmailContent(config SendEmailConfig, stats *profile.Stats, analysers []Analyser) (subject string, body string, err error) {
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	for _, analyser := range analysers {
		out += `
		<div>
`
		out += fmt.Sprintf("<h2>%s for %s:</h2>\n", analyser.GetName(), config.Profile)
		analysis, err := analyser.GetResults(stats)
		if err != nil {
			return "", "", fmt.Errorf("getting results for %s: %w", analyser.GetName(), err)
		}

		if len(analysis.results) <= 1 {
			out += "<div>No tracks found.</div>\n"
		} else {
			out += `
			<table>
				<thead>
					<tr>
`
			for _, header := range analysis.results[0] {
				out += fmt.Sprintf("<th>%s</th>", header)
			}
			out += `				</tr>
			</thead>`

			for _, row := range analysis.results[1:] {
				out += "<tr>\n"
				for _, column := range row {
					out += fmt.Sprintf("<td>%s</td>\n", column)
				}
				out += "</tr>\n"

			}
			out += `
				</tbody>
			</table>
`
		}
		out += fmt.Sprintf(`<div>%s</div>
		</div>`, analysis.summary)
	}
	out += `
  </body>
</html>
`

	subject = fmt.Sprintf("Taste profile for %s", config.Profile)

	return subject, out, nil
}
