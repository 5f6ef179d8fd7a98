// fastbreak はスポーツイベントダッシュボードのエントリーポイント。
// サブコマンド: serve（デフォルト）、worker、migrate、healthcheck
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/app"
)

func main() {
	// .envファイルがあれば読み込む（ローカル開発用、本番では存在しない）
	_ = godotenv.Load()

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
