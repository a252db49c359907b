package domain

type Table string

const (
	TableAuctions      Table = "auctions"
	TableRefunds       Table = "refunds"
	TableAuctionEvents Table = "auction_events"
	TableCounters      Table = "counters"
	TableTrackerStates Table = "tracker_states"
)
