package savesync

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Sync save data around every play session"
	MsgLaunchShort     = "Sync, launch a game, then sync again"
	MsgSetupShort      = "Run first-time setup for this games folder"
	MsgStatusShort     = "Show discovered games and store state"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgPreOffline    = "Offline, playing with local save data"
	MsgPreClean      = "Save data is up to date"
	MsgPreRemote     = "Conflict resolved: another machine's data was kept (backup taken)"
	MsgPreLocal      = "Conflict resolved: this machine's data was kept"
	MsgPreSoftError  = "Could not sync, playing with local save data"
	MsgPostNoChanges = "Nothing changed this session"
	MsgPostDeferred  = "Offline, changes will sync on the next run"
	MsgPostStaging   = "Save files were locked, changes will sync on the next run"
	MsgPostNothing   = "Session changed nothing worth syncing"
	MsgPostPushed    = "Session changes synced"
	MsgPostPushFail  = "Changes saved locally, upload failed; will retry next run"

	// Conflict prompt
	MsgConflictDetected = "Save data conflict in %d file(s): this machine and another edited the same saves"
	MsgConflictPrompt   = "Keep THIS machine's save data (the other machine's copy is discarded)?"

	// Error messages
	MsgErrNoGame = "no game specified; pass a game name or run 'savesync status' to list them"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagYes       = "Assume defaults for every prompt (unattended mode)"
	MsgFlagGamesRoot = "Directory scanned for game folders (default: store parent or SAVESYNC_GAMES)"
)

// MsgRootLong is the root command help text
const MsgRootLong = `savesync keeps the save data of your games identical across machines.

Game saves, replays and configs are linked into a git-backed shared store.
Before a game starts the store is pulled; after the game exits the changes
are committed and pushed. Being offline never blocks playing.

Run 'savesync' once in a fresh games folder to set everything up, then
start games through 'savesync <game>' or the generated shortcuts.`
