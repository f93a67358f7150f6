package schema

// BuiltinVersion tags the layout set below. The layouts reproduce the
// equity-derivatives segment dump format: byte offsets, widths and codes must
// match the published format document exactly.
const BuiltinVersion = "fo-2012.09"

// Builtin returns the registry for the F&O order/trade dump format.
//
// All integers are big-endian. Timestamps are jiffies (1/65536 s) since
// 1980-01-01 UTC. Prices are scaled integers with two decimal places.
func Builtin() *Registry {
	buySell := NewEnumTable("buy_sell", map[string]string{
		"B": "B",
		"S": "S",
	})
	yesNo := NewEnumTable("yes_no", map[string]string{
		"Y": "Y",
		"N": "N",
	})
	instrument := NewEnumTable("instrument", map[string]string{
		"FUTIDX": "FUTIDX",
		"FUTSTK": "FUTSTK",
		"OPTIDX": "OPTIDX",
		"OPTSTK": "OPTSTK",
	})
	algoInd := NewEnumTable("algo_ind", map[string]string{
		"0": "0",
		"1": "1",
	})
	clientFlag := NewEnumTable("client_flag", map[string]string{
		"1": "1",
		"2": "2",
		"3": "3",
		"4": "4",
	})

	reg := NewRegistry(BuiltinVersion)
	for _, t := range []*EnumTable{buySell, yesNo, instrument, algoInd, clientFlag} {
		if err := reg.AddEnum(t); err != nil {
			panic(err)
		}
	}

	orderFields := func(t RecordType, name string) *RecordSchema {
		return &RecordSchema{
			Type:   t,
			Name:   name,
			Length: 91,
			Fields: []FieldSpec{
				{Name: "record_type", Offset: 0, Length: 2, Kind: KindFixedInt, Unsigned: true},
				{Name: "segment", Offset: 2, Length: 4, Kind: KindFixedText},
				{Name: "order_number", Offset: 6, Length: 8, Kind: KindFixedInt, Unsigned: true},
				{Name: "timestamp", Offset: 14, Length: 8, Kind: KindPackedTimestamp},
				{Name: "buy_sell", Offset: 22, Length: 1, Kind: KindEnum, Enum: buySell},
				{Name: "symbol", Offset: 23, Length: 10, Kind: KindFixedText},
				{Name: "instrument", Offset: 33, Length: 6, Kind: KindEnum, Enum: instrument},
				{Name: "expiry_date", Offset: 39, Length: 4, Kind: KindPackedDate},
				{Name: "strike_price", Offset: 43, Length: 8, Kind: KindFixedPoint, Scale: 2},
				{Name: "option_type", Offset: 51, Length: 2, Kind: KindFixedText},
				{Name: "volume_disclosed", Offset: 53, Length: 8, Kind: KindFixedInt},
				{Name: "volume_original", Offset: 61, Length: 8, Kind: KindFixedInt},
				{Name: "limit_price", Offset: 69, Length: 8, Kind: KindFixedPoint, Scale: 2},
				{Name: "trigger_price", Offset: 77, Length: 8, Kind: KindFixedPoint, Scale: 2},
				{Name: "mkt_flag", Offset: 85, Length: 1, Kind: KindEnum, Enum: yesNo},
				{Name: "on_stop_flag", Offset: 86, Length: 1, Kind: KindEnum, Enum: yesNo},
				{Name: "io_flag", Offset: 87, Length: 1, Kind: KindEnum, Enum: yesNo},
				{Name: "spread_comb_type", Offset: 88, Length: 1, Kind: KindEnum, Enum: yesNo},
				{Name: "algo_ind", Offset: 89, Length: 1, Kind: KindEnum, Enum: algoInd},
				{Name: "client_id_flag", Offset: 90, Length: 1, Kind: KindEnum, Enum: clientFlag},
			},
		}
	}

	trade := &RecordSchema{
		Type:   TypeTrade,
		Name:   "trade",
		Length: 88,
		Fields: []FieldSpec{
			{Name: "record_type", Offset: 0, Length: 2, Kind: KindFixedInt, Unsigned: true},
			{Name: "segment", Offset: 2, Length: 4, Kind: KindFixedText},
			{Name: "trade_number", Offset: 6, Length: 8, Kind: KindFixedInt, Unsigned: true},
			{Name: "timestamp", Offset: 14, Length: 8, Kind: KindPackedTimestamp},
			{Name: "symbol", Offset: 22, Length: 10, Kind: KindFixedText},
			{Name: "instrument", Offset: 32, Length: 6, Kind: KindEnum, Enum: instrument},
			{Name: "expiry_date", Offset: 38, Length: 4, Kind: KindPackedDate},
			{Name: "strike_price", Offset: 42, Length: 8, Kind: KindFixedPoint, Scale: 2},
			{Name: "option_type", Offset: 50, Length: 2, Kind: KindFixedText},
			{Name: "trade_price", Offset: 52, Length: 8, Kind: KindFixedPoint, Scale: 2},
			{Name: "trade_quantity", Offset: 60, Length: 8, Kind: KindFixedInt},
			{Name: "buy_order_number", Offset: 68, Length: 8, Kind: KindFixedInt, Unsigned: true},
			{Name: "buy_algo_ind", Offset: 76, Length: 1, Kind: KindEnum, Enum: algoInd},
			{Name: "buy_client_flag", Offset: 77, Length: 1, Kind: KindEnum, Enum: clientFlag},
			{Name: "sell_order_number", Offset: 78, Length: 8, Kind: KindFixedInt, Unsigned: true},
			{Name: "sell_algo_ind", Offset: 86, Length: 1, Kind: KindEnum, Enum: algoInd},
			{Name: "sell_client_flag", Offset: 87, Length: 1, Kind: KindEnum, Enum: clientFlag},
		},
	}

	stats := &RecordSchema{
		Type:   TypeMarketStats,
		Name:   "market_stats",
		Length: 98,
		Fields: []FieldSpec{
			{Name: "record_type", Offset: 0, Length: 2, Kind: KindFixedInt, Unsigned: true},
			{Name: "segment", Offset: 2, Length: 4, Kind: KindFixedText},
			{Name: "timestamp", Offset: 6, Length: 8, Kind: KindPackedTimestamp},
			{Name: "symbol", Offset: 14, Length: 10, Kind: KindFixedText},
			{Name: "instrument", Offset: 24, Length: 6, Kind: KindEnum, Enum: instrument},
			{Name: "expiry_date", Offset: 30, Length: 4, Kind: KindPackedDate},
			{Name: "open_price", Offset: 34, Length: 8, Kind: KindFixedPoint, Scale: 2},
			{Name: "high_price", Offset: 42, Length: 8, Kind: KindFixedPoint, Scale: 2},
			{Name: "low_price", Offset: 50, Length: 8, Kind: KindFixedPoint, Scale: 2},
			{Name: "close_price", Offset: 58, Length: 8, Kind: KindFixedPoint, Scale: 2},
			{Name: "total_traded_qty", Offset: 66, Length: 8, Kind: KindFixedInt},
			{Name: "total_traded_value", Offset: 74, Length: 8, Kind: KindFixedPoint, Scale: 2},
			{Name: "number_of_trades", Offset: 82, Length: 8, Kind: KindFixedInt},
			{Name: "session_start", Offset: 90, Length: 4, Kind: KindPackedTime},
			{Name: "session_end", Offset: 94, Length: 4, Kind: KindPackedTime},
		},
	}

	for _, s := range []*RecordSchema{
		orderFields(TypeOrderNew, "order_new"),
		orderFields(TypeOrderModify, "order_modify"),
		orderFields(TypeOrderCancel, "order_cancel"),
		trade,
		stats,
	} {
		if err := reg.Add(s); err != nil {
			panic(err)
		}
	}
	return reg
}
