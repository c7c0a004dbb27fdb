package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/hiringtools/cv-intake/internal/googleauth"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain and store a Google OAuth token for the run command",
	Run: func(_ *cobra.Command, _ []string) {
		auth()
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}

// auth walks the user through the out-of-band OAuth flow once and persists
// the token where the run command expects it.
func auth() {
	config, err := getConfig()
	if err != nil {
		log.Fatalf("getting a config: %v", err)
	}

	if config == nil || config.Gmail == nil || config.Gmail.CredentialsFile == "" {
		log.Fatal("google credentials are required under gmail.credentials-file")
	}

	tokenFile := strings.TrimSpace(config.Gmail.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("gmail.token-file"))
	}
	if tokenFile == "" {
		log.Fatal("a token file is required (set CV_INTAKE_TOKEN_FILE or gmail.token-file)")
	}

	oauthCfg, err := googleauth.Config(config.Gmail.CredentialsFile, allScopes()...)
	if err != nil {
		log.Fatalf("reading credentials: %v", err)
	}

	url := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser and authorize %s:\n\n%s\n\n", app, url)

	prompt := promptui.Prompt{
		Label: "Authorization code",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("the code cannot be empty")
			}
			return nil
		},
	}

	code, err := prompt.Run()
	if err != nil {
		log.Fatalf("reading the authorization code: %v", err)
	}

	tok, err := oauthCfg.Exchange(context.Background(), strings.TrimSpace(code))
	if err != nil {
		log.Fatalf("exchanging the authorization code: %v", err)
	}

	if err := googleauth.SaveToken(tokenFile, tok); err != nil {
		log.Fatalf("saving the token: %v", err)
	}

	fmt.Printf("Token saved to %s with scopes for gmail, drive and sheets.\n", tokenFile)
}
