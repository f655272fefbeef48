package app

import (
    "github.com/andikar-ai/wordledger/internal/app/api/server"
    "github.com/andikar-ai/wordledger/internal/app/service/balance"
    "github.com/andikar-ai/wordledger/internal/app/service/callbacklog"
    "github.com/andikar-ai/wordledger/internal/app/service/catalog"
    "github.com/andikar-ai/wordledger/internal/app/service/payment"
    "github.com/andikar-ai/wordledger/internal/app/service/reconciler"
    "github.com/andikar-ai/wordledger/internal/app/service/statistics"
    "github.com/andikar-ai/wordledger/internal/platform/db"
    "github.com/andikar-ai/wordledger/internal/platform/lipia"
    "github.com/andikar-ai/wordledger/pkg/config"
    "github.com/andikar-ai/wordledger/pkg/logger"
	"time"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
    logger.Module,
    config.Module,
    db.Module,
    server.Module,
    lipia.Module,
    catalog.Module,
    balance.Module,
    payment.Module,
    callbacklog.Module,
    reconciler.Module,
    statistics.Module,
)
