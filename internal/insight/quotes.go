package insight

import (
	"slices"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

// RecentQuoteLimit is how many distinct quotes are remembered.
const RecentQuoteLimit = 10

var offlineQuotes = []domain.Quote{
	{Text: "내일은 내일의 태양이 뜰 거야.", Source: "바람과 함께 사라지다", Reason: "하루를 내려놓고 내일을 기대하게 해주는 말이에요."},
	{Text: "그냥 계속 헤엄쳐.", Source: "니모를 찾아서", Reason: "지친 날에도 한 걸음씩이면 충분해요."},
	{Text: "카르페 디엠. 현재를 즐겨라.", Source: "죽은 시인의 사회", Reason: "지금 이 순간의 기분을 소중히 여겨보세요."},
	{Text: "인생은 초콜릿 상자와 같아. 무엇을 집을지 아무도 모르거든.", Source: "포레스트 검프", Reason: "예상 못 한 하루도 나름의 맛이 있어요."},
	{Text: "행복은 가장 어두운 순간에도 찾을 수 있어. 불을 켜는 것만 기억한다면.", Source: "해리 포터와 아즈카반의 죄수", Reason: "마음이 무거운 날에도 작은 빛을 찾을 수 있어요."},
	{Text: "과거는 아플 수 있어. 하지만 도망치거나 배울 수 있지.", Source: "라이온 킹", Reason: "화나거나 속상한 일도 배움이 될 수 있어요."},
	{Text: "무한한 공간 저 너머로!", Source: "토이 스토리", Reason: "신나는 기분을 더 멀리까지 이어가 보세요."},
	{Text: "우리에게 주어진 시간 동안 무엇을 할지만 정하면 돼.", Source: "반지의 제왕: 반지 원정대", Reason: "평범한 하루도 선택으로 특별해져요."},
	{Text: "희망은 좋은 거예요. 어쩌면 가장 좋은 것일지도 몰라요.", Source: "쇼생크 탈출", Reason: "어떤 기분이든 희망은 남아 있어요."},
	{Text: "때로는 잘못 탄 기차가 목적지에 데려다준다.", Source: "런치박스", Reason: "계획대로 되지 않은 하루에도 의미가 있어요."},
	{Text: "모험은 바로 저기 있어!", Source: "업", Reason: "설레는 마음을 새로운 일로 이어가 보세요."},
	{Text: "누구나 요리할 수 있다.", Source: "라따뚜이", Reason: "어떤 하루든 시작은 누구에게나 열려 있어요."},
}

// offlineQuote picks a built-in quote not in recent, starting from a
// mood-dependent position so different moods see different quotes.
func offlineQuote(mood domain.Mood, recent []string) domain.Quote {
	start := 0
	for i, m := range domain.Moods() {
		if m == mood {
			start = (i * 2) % len(offlineQuotes)
			break
		}
	}
	for i := range offlineQuotes {
		q := offlineQuotes[(start+i)%len(offlineQuotes)]
		if !slices.Contains(recent, q.Text) {
			return q
		}
	}
	return offlineQuotes[start]
}

// pushRecent puts text at the front of recent, keeping it distinct and bounded.
func pushRecent(recent []string, text string) []string {
	out := make([]string, 0, RecentQuoteLimit)
	out = append(out, text)
	for _, q := range recent {
		if len(out) == RecentQuoteLimit {
			break
		}
		if q == text || q == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}
