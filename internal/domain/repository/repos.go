package repository

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Balances    LocationBalanceRepository
	Movements   StockMovementRepository
	Inbound     InboundRepository
	Outbound    OutboundRepository
	CycleCounts CycleCountRepository
}
