// Package main запускает терминальное меню интернет-магазина.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/avieira/loja-online/internal/config"
	"github.com/avieira/loja-online/internal/menu"
	"github.com/avieira/loja-online/internal/service"
	"github.com/avieira/loja-online/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	st := store.New(cfg.DataFile, logger)

	dataset, err := st.Load()
	if err != nil {
		// Любая ошибка, кроме повреждённого файла, фатальна на старте.
		if !errors.Is(err, store.ErrCorruptData) {
			sugar.Fatalw("dataset load error", "error", err.Error())
		}
		fmt.Println("AVISO: Arquivo de dados corrompido. Iniciando com dados padrão.")
	}

	svc := service.NewService(st, dataset)

	menu.New(svc, os.Stdin, os.Stdout, logger).Run()
}
