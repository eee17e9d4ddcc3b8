package network

const (
	MsgTypeHeartbeat  = 1
	MsgTypeScoreboard = 301
	MsgTypeGameEnd    = 305
)
