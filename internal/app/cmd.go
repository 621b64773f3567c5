package app

// Command はバイナリの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーとして起動する。
	CommandServe Command = "serve"
	// CommandWorker はクリーンアップワーカーとして起動する。
	CommandWorker Command = "worker"
	// CommandMigrate はスキーママイグレーションを適用して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを1回実行して終了する。
	// distrolessイメージのDocker HEALTHCHECKから呼ばれる。
	CommandHealthcheck Command = "healthcheck"
)

var commands = map[string]Command{
	"serve":       CommandServe,
	"worker":      CommandWorker,
	"migrate":     CommandMigrate,
	"healthcheck": CommandHealthcheck,
}

// ParseCommand はコマンドライン引数の先頭からサブコマンドを解析する。
// 引数なし・未知のコマンドはserveとして扱う。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}
	if cmd, ok := commands[args[0]]; ok {
		return cmd
	}
	return CommandServe
}
