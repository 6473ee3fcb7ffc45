package eventtool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jiangplus/nostr-snap/engine/actors"
	"github.com/jiangplus/nostr-snap/engine/events"
	"github.com/jiangplus/nostr-snap/engine/helpers"
	"github.com/jiangplus/nostr-snap/engine/library"
)

var ErrInvalid = errors.New("invalid")

func RootCommand() *cobra.Command {
	var rootDir string
	var logLevel int
	rootCmd := &cobra.Command{
		Use:           "event-tool",
		Short:         "validate, sign, verify and file nostr events",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf := viper.New()
			if rootDir != "" {
				conf.Set("rootDir", strings.TrimSuffix(rootDir, "/")+"/")
			}
			if err := actors.InitConfig(conf); err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				conf.Set("logLevel", logLevel)
				library.SetLogLevel(logLevel)
			}
			actors.SetConfig(conf)
			actors.ForgetWallet()
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "directory holding config.yaml and data (default ~/nostr-snap)")
	rootCmd.PersistentFlags().IntVar(&logLevel, "log-level", 2, "0 fatal, 1 error, 2 warning, 3 debug, 4 info, 5 trace")

	rootCmd.AddCommand(
		keygenCommand(),
		pubkeyCommand(),
		validateCommand(),
		idCommand(),
		signCommand(),
		verifyCommand(),
		deleteCommand(),
		replyCommand(),
		inspectCommand(),
		timelineCommand(),
	)
	return rootCmd
}

func keygenCommand() *cobra.Command {
	var withSeed bool
	keygen := &cobra.Command{
		Use:   "keygen",
		Short: "generate a new private key",
		Long:  "Generates a new key and prints it. Nothing is saved; put the key in config.yaml or NOSTRSNAP_PRIVATEKEY to use it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := actors.NewWallet(withSeed)
			if err != nil {
				return err
			}
			npub, err := actors.Npub(w.Account)
			if err != nil {
				return err
			}
			nsec, err := actors.Nsec(w.PrivateKey)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pubkey: %s\nnpub: %s\nprivate key: %s\nnsec: %s\n", w.Account, npub, w.PrivateKey, nsec)
			if w.SeedWords != "" {
				fmt.Fprintf(out, "seed words: %s\n", w.SeedWords)
			}
			return nil
		},
	}
	keygen.Flags().BoolVarP(&withSeed, "seed", "s", false, "derive the key from new nip06 seed words")
	return keygen
}

func pubkeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey [private key]",
		Short: "print the public key of a hex or nsec private key, or of the configured wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account library.Account
			if len(args) == 1 {
				w, err := actors.WalletFromKey(args[0])
				if err != nil {
					return err
				}
				account = w.Account
			} else {
				w, err := actors.MyWallet()
				if err != nil {
					return err
				}
				account = w.Account
			}
			npub, err := actors.Npub(account)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", account, npub)
			return nil
		},
	}
}

func validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "check that an event read from file or stdin is well formed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if _, err := events.ParseUnsignedEvent(raw); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func idCommand() *cobra.Command {
	var serialized bool
	id := &cobra.Command{
		Use:   "id [file]",
		Short: "print the id of an event read from file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			u, err := events.ParseUnsignedEvent(raw)
			if err != nil {
				return err
			}
			if serialized {
				b, err := events.Serialize(u)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
			}
			id, err := events.DeriveID(u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	id.Flags().BoolVar(&serialized, "serialized", false, "also print the canonical serialization")
	return id
}

func signCommand() *cobra.Command {
	var kind int
	var content string
	var tags []string
	var createdAt int64
	var fromJSON bool
	sign := &cobra.Command{
		Use:   "sign",
		Short: "sign an event with the configured wallet",
		Long: "Builds an event from flags, or with --json reads an event template from stdin, " +
			"and signs it with the configured privateKey or seedWords.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var t events.EventTemplate
			if fromJSON {
				raw, err := readInput(cmd, args)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(raw, &t); err != nil {
					return fmt.Errorf("decode template: %w", err)
				}
			} else {
				if !cmd.Flags().Changed("kind") {
					kind = actors.MakeOrGetConfig().GetInt("defaultKind")
				}
				t = events.EventTemplate{Kind: kind, Content: content, CreatedAt: events.Timestamp(createdAt)}
				for _, tag := range tags {
					t.Tags = append(t.Tags, strings.Split(tag, ","))
				}
			}
			if t.CreatedAt == 0 && !cmd.Flags().Changed("created-at") {
				t.CreatedAt = events.Now()
			}
			signer, err := actors.MySigner()
			if err != nil {
				return err
			}
			e, err := helpers.SignTemplate(context.Background(), signer, t)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.String())
			return nil
		},
	}
	sign.Flags().IntVarP(&kind, "kind", "k", 1, "event kind (default from the defaultKind config key)")
	sign.Flags().StringVarP(&content, "content", "c", "", "event content")
	sign.Flags().StringArrayVarP(&tags, "tag", "t", nil, "comma separated tag, e.g. e,<id>,,reply (repeatable)")
	sign.Flags().Int64Var(&createdAt, "created-at", 0, "unix timestamp (default now)")
	sign.Flags().BoolVar(&fromJSON, "json", false, "read an event template as JSON from file or stdin")
	return sign
}

func verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [file]",
		Short: "verify the id and signature of an event read from file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			e, err := events.ParseEvent(raw)
			if err != nil {
				return err
			}
			if !e.Verify() {
				return fmt.Errorf("event %s: %w", e.ID, actors.ErrUnverified)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func deleteCommand() *cobra.Command {
	var reason string
	del := &cobra.Command{
		Use:   "delete <event id>...",
		Short: "sign a kind 5 deletion request for one or more event ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if len(id) != 64 {
					return fmt.Errorf("%w event id %q", ErrInvalid, id)
				}
			}
			signer, err := actors.MySigner()
			if err != nil {
				return err
			}
			e, err := helpers.SignTemplate(context.Background(), signer, helpers.DeleteEvent(args, reason))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.String())
			return nil
		},
	}
	del.Flags().StringVarP(&reason, "reason", "r", "", "reason for the deletion")
	return del
}

func replyCommand() *cobra.Command {
	var content string
	reply := &cobra.Command{
		Use:   "reply [file]",
		Short: "sign a reply to an event read from file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			parent, err := events.ParseEvent(raw)
			if err != nil {
				return err
			}
			if !parent.Verify() {
				return fmt.Errorf("event %s: %w", parent.ID, actors.ErrUnverified)
			}
			signer, err := actors.MySigner()
			if err != nil {
				return err
			}
			e, err := helpers.SignTemplate(context.Background(), signer, helpers.Reply(parent, content))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.String())
			return nil
		},
	}
	reply.Flags().StringVarP(&content, "content", "c", "", "reply content")
	return reply
}

func inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "dump an event read from file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			e, err := events.ParseEvent(raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			spew.Fdump(out, e.Unsigned())
			fmt.Fprintf(out, "created: %s\n", e.CreatedAt.Time().UTC())
			fmt.Fprintf(out, "kind class: %s\n", kindClass(e.Kind))
			if reply, ok := events.FirstReply(e); ok {
				fmt.Fprintf(out, "reply to: %s\n", reply)
			}
			fmt.Fprintf(out, "id matches content: %t\n", e.ID != "" && e.ID == e.GetID())
			fmt.Fprintf(out, "verified: %t\n", e.Verify())
			return nil
		},
	}
}

func timelineCommand() *cobra.Command {
	timeline := &cobra.Command{
		Use:   "timeline",
		Short: "keep named lists of verified events, newest first",
	}
	timeline.AddCommand(&cobra.Command{
		Use:   "add <name> [file]",
		Short: "verify an event read from file or stdin and add it to a timeline",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			e, err := events.ParseEvent(raw)
			if err != nil {
				return err
			}
			list, added, err := actors.AddToTimeline(args[0], e)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already in %s (%d events)\n", e.ID, args[0], len(list))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s (%d events)\n", e.ID, args[0], len(list))
			return nil
		},
	})
	timeline.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "print the events of a timeline, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := actors.LoadTimeline(args[0])
			if err != nil {
				return err
			}
			valid := actors.VerifyBatch(list, 0)
			for i, e := range list {
				if !valid[i] {
					library.LogCLI(fmt.Sprintf("event %s in timeline %s does not verify", e.ID, args[0]), 2)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.String())
			}
			return nil
		},
	})
	return timeline
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return b, nil
}

func kindClass(kind int) string {
	switch {
	case events.IsReplaceableKind(kind):
		return "replaceable"
	case events.IsEphemeralKind(kind):
		return "ephemeral"
	case events.IsAddressableKind(kind):
		return "addressable"
	case events.IsRegularKind(kind):
		return "regular"
	}
	return "unknown"
}
