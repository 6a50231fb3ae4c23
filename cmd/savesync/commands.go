// Package savesync wires the command-line surface: discovery, setup,
// the sync-launch-sync session flow and store status reporting.
package savesync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/savesync/internal/version"
	"github.com/arthur-debert/savesync/pkg/config"
	"github.com/arthur-debert/savesync/pkg/games"
	"github.com/arthur-debert/savesync/pkg/gitcmd"
	"github.com/arthur-debert/savesync/pkg/launch"
	"github.com/arthur-debert/savesync/pkg/logging"
	"github.com/arthur-debert/savesync/pkg/online"
	"github.com/arthur-debert/savesync/pkg/paths"
	"github.com/arthur-debert/savesync/pkg/setup"
	"github.com/arthur-debert/savesync/pkg/style"
	"github.com/arthur-debert/savesync/pkg/syncer"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		assumeYes bool
		gamesRoot string
	)

	rootCmd := &cobra.Command{
		Use:     "savesync [game]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(gamesRoot, assumeYes)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				// a fresh games folder bootstraps itself on first run
				if !a.paths.MarkerExists() {
					return a.bootstrap()
				}
				_ = cmd.Help()
				return errors.New(MsgErrNoGame)
			}
			return a.session(args[0])
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, MsgFlagYes)
	rootCmd.PersistentFlags().StringVar(&gamesRoot, "games-root", "", MsgFlagGamesRoot)

	rootCmd.AddCommand(newLaunchCmd(&gamesRoot, &assumeYes))
	rootCmd.AddCommand(newSetupCmd(&gamesRoot, &assumeYes))
	rootCmd.AddCommand(newStatusCmd(&gamesRoot, &assumeYes))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// app bundles the resolved paths and settings every command needs
type app struct {
	paths       *paths.Paths
	settings    *config.Settings
	interactive bool

	// bootstrap runs first-time setup; swappable for tests
	bootstrap func() error
}

func newApp(gamesRoot string, assumeYes bool) (*app, error) {
	p, err := paths.New(gamesRoot)
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(p.ConfigPath())
	if err != nil {
		return nil, err
	}

	interactive := !assumeYes &&
		(isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))

	a := &app{paths: p, settings: settings, interactive: interactive}
	a.bootstrap = a.runSetup
	return a, nil
}

// session plays one game, bootstrapping first when this machine has not
// completed setup yet. Shortcuts invoke 'savesync launch <game>', so the
// launch path must self-bootstrap exactly like the bare command.
func (a *app) session(name string) error {
	if !a.paths.MarkerExists() {
		if err := a.bootstrap(); err != nil {
			return err
		}
	}
	return a.playSession(name)
}

// resolver returns the conflict policy for this invocation. Only an
// interactive operator may choose to keep local data.
func (a *app) resolver() syncer.Resolver {
	if a.interactive {
		return promptResolver{}
	}
	return syncer.RemoteWins{}
}

func (a *app) runSetup() error {
	return setup.New(a.paths, a.settings, a.resolver()).Run(a.interactive)
}

// skipFolders returns store folder names discovery must ignore
func (a *app) skipFolders() []string {
	if filepath.Dir(a.paths.StoreRoot()) == a.paths.GamesRoot() {
		return []string{filepath.Base(a.paths.StoreRoot())}
	}
	return nil
}

func (a *app) newSyncer() *syncer.Syncer {
	return syncer.New(
		gitcmd.NewRepo(a.paths.StoreRoot()),
		online.New(a.settings.Probe.Host, a.settings.ProbeTimeout()),
		a.resolver(),
		a.settings.Sync.Branch,
		a.settings.MachineName(),
		a.paths.StoreRoot(),
		a.paths.BackupsDir(),
		a.settings.Sync.StagingAttempts,
		a.settings.StagingBackoff(),
	)
}

// playSession is the core flow: pull, play, push. Sync outcomes are
// reported but only a missing game or broken setup aborts.
func (a *app) playSession(name string) error {
	if err := setup.VerifyMarkerIntegrity(a.paths); err != nil {
		return err
	}

	list, err := games.Discover(a.paths.GamesRoot(), a.skipFolders()...)
	if err != nil {
		return err
	}
	game, err := games.Find(list, name)
	if err != nil {
		return err
	}

	s := a.newSyncer()
	reportPre(s.PreSync())

	pterm.Info.Printfln("Launching %s", style.Get("GameName").Render(game.Name))
	if err := launch.New(a.settings.SettleDelay()).Run(&game); err != nil {
		return err
	}

	reportPost(s.PostSync())
	return nil
}

func reportPre(outcome syncer.PreOutcome) {
	switch outcome {
	case syncer.PreOffline:
		pterm.Info.Println(MsgPreOffline)
	case syncer.PreClean:
		pterm.Success.Println(MsgPreClean)
	case syncer.PreResolvedRemote:
		pterm.Warning.Println(MsgPreRemote)
	case syncer.PreResolvedLocal:
		pterm.Warning.Println(MsgPreLocal)
	case syncer.PreSoftError:
		pterm.Warning.Println(MsgPreSoftError)
	}
}

func reportPost(outcome syncer.PostOutcome) {
	switch outcome {
	case syncer.PostNoChanges:
		pterm.Info.Println(MsgPostNoChanges)
	case syncer.PostDeferredOffline:
		pterm.Info.Println(MsgPostDeferred)
	case syncer.PostStagingFailed:
		pterm.Warning.Println(MsgPostStaging)
	case syncer.PostNothingStaged:
		pterm.Info.Println(MsgPostNothing)
	case syncer.PostPushed:
		pterm.Success.Println(MsgPostPushed)
	case syncer.PostPushFailed:
		pterm.Warning.Println(MsgPostPushFail)
	}
}

// promptResolver asks the operator which side of a conflict survives
type promptResolver struct{}

// KeepLocal defaults to no: remote wins unless explicitly overridden
func (promptResolver) KeepLocal(conflicted []string) bool {
	pterm.Warning.Printfln(MsgConflictDetected, len(conflicted))
	keep, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(MsgConflictPrompt)
	if err != nil {
		return false
	}
	return keep
}

func newLaunchCmd(gamesRoot *string, assumeYes *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "launch <game>",
		Short: MsgLaunchShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*gamesRoot, *assumeYes)
			if err != nil {
				return err
			}
			return a.session(args[0])
		},
	}
}

func newSetupCmd(gamesRoot *string, assumeYes *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: MsgSetupShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*gamesRoot, *assumeYes)
			if err != nil {
				return err
			}
			return a.runSetup()
		},
	}
}

func newStatusCmd(gamesRoot *string, assumeYes *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*gamesRoot, *assumeYes)
			if err != nil {
				return err
			}
			return a.printStatus(cmd)
		},
	}
}

func (a *app) printStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Store:      %s\n", a.paths.StoreRoot())
	fmt.Fprintf(out, "Games root: %s\n", a.paths.GamesRoot())

	if !a.paths.MarkerExists() {
		fmt.Fprintln(out, style.Get("Warning").Render("Setup has not run yet; run 'savesync' to bootstrap."))
		return nil
	}

	repo := gitcmd.NewRepo(a.paths.StoreRoot())
	entries, status := repo.Status()
	switch {
	case !status.OK():
		fmt.Fprintf(out, "Store repo: %s\n", style.Get("Error").Render("unreadable"))
	case len(entries) == 0:
		fmt.Fprintf(out, "Store repo: %s\n", style.Get("Success").Render("clean"))
	default:
		fmt.Fprintf(out, "Store repo: %s\n",
			style.Get("Warning").Render(fmt.Sprintf("%d pending change(s)", len(entries))))
	}

	list, err := games.Discover(a.paths.GamesRoot(), a.skipFolders()...)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No games found.")
		return nil
	}

	data := pterm.TableData{{"GAME", "ID", "EXECUTABLE"}}
	for _, g := range list {
		data = append(data, []string{g.Name, g.ID, g.ExecutableName()})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "savesync version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate bash completion")
				}
			case "zsh":
				if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate zsh completion")
				}
			case "fish":
				if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
					log.Error().Err(err).Msg("Failed to generate fish completion")
				}
			case "powershell":
				if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate powershell completion")
				}
			}
		},
	}
}
