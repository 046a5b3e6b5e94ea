package broadcast

// Field says which part of a Record a column feeds
type Field int

// Record fields addressable from a header
const (
	FieldMetric Field = iota
	FieldAccount
	FieldRoomID
	FieldRoomName
	FieldStartedAt
)

// Column is one known export header with its accepted spellings
type Column struct {
	Field   Field
	Metric  Metric // only for FieldMetric
	Name    string // as the export writes it
	Aliases []string
}

// Names returns Name followed by the aliases
func (c Column) Names() []string { return append([]string{c.Name}, c.Aliases...) }

// StartedAtHeader is the one column a month cannot be decoded without
const StartedAtHeader = "配信日時"

var schema = []Column{
	{Field: FieldAccount, Name: "アカウントID", Aliases: []string{"account_id", "メンバーID", "member_id"}},
	{Field: FieldRoomID, Name: "ルームID", Aliases: []string{"room_id"}},
	{Field: FieldRoomName, Name: "ルーム名", Aliases: []string{"room_name"}},
	{Field: FieldStartedAt, Name: StartedAtHeader, Aliases: []string{"started_at", "broadcast_started_at"}},

	{Field: FieldMetric, Metric: TotalViews, Name: "合計視聴数"},
	{Field: FieldMetric, Metric: UniqueViewers, Name: "視聴会員数"},
	{Field: FieldMetric, Metric: Followers, Name: "フォロワー数"},
	{Field: FieldMetric, Metric: SupportPoints, Name: "獲得支援point", Aliases: []string{"獲得支援ポイント"}},
	{Field: FieldMetric, Metric: Comments, Name: "コメント数"},
	{Field: FieldMetric, Metric: Gifts, Name: "ギフト数"},
	{Field: FieldMetric, Metric: SGTotal, Name: "期限あり/期限なしSG総額"},
	{Field: FieldMetric, Metric: Commenters, Name: "コメント人数"},
	{Field: FieldMetric, Metric: FirstCommenters, Name: "初コメント人数"},
	{Field: FieldMetric, Metric: Gifters, Name: "ギフト人数"},
	{Field: FieldMetric, Metric: FirstGifters, Name: "初ギフト人数"},
	{Field: FieldMetric, Metric: FollowerDelta, Name: "フォロワー増減数"},
	{Field: FieldMetric, Metric: FirstVisitors, Name: "初ルーム来訪者数"},
	{Field: FieldMetric, Metric: DurationMinutes, Name: "配信時間(分)", Aliases: []string{"配信時間"}},
	{Field: FieldMetric, Metric: ShortStayViewers, Name: "短時間滞在者数"},
	{Field: FieldMetric, Metric: SGGiftCount, Name: "期限あり/期限なしSGのギフティング数"},
	{Field: FieldMetric, Metric: SGGiftPersons, Name: "期限あり/期限なしSGのギフティング人数"},
}

// Schema returns a copy of the known export columns; every metric has one
// entry and English aliases are added from the metric keys
func Schema() []Column {
	out := make([]Column, len(schema))
	for i, c := range schema {
		c.Aliases = append([]string(nil), c.Aliases...)
		if c.Field == FieldMetric {
			c.Aliases = append(c.Aliases, c.Metric.String())
		}
		out[i] = c
	}
	return out
}
