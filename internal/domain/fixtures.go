package domain

// FixtureProfiles returns the example records seeded into an empty store.
// They are flagged so that the gallery and the quiz never show them.
func FixtureProfiles(createdAt int64) []Profile {
	fixtures := []Profile{
		{ID: "1", Name: "최고각리", Group: "1학년팀", Food: "떡볶이", Dream: "아이들이 스스로 행복을 찾는 교실 만들기", Hobby: "주말 캠핑과 불멍", Motto: "오늘보다 나은 내일", BucketList: "유럽 일주 한 달 살기", SelfPraise: "언제나 웃음을 잃지 않는 나, 칭찬해!", WishToHear: "선생님 덕분에 학교가 즐거워요", Greeting: "잘 부탁드립니다! 함께 즐거운 한 해 만들어요."},
		{ID: "2", Name: "함께행복", Group: "비교과-전담교사팀", Food: "삼겹살", Dream: "건강한 신체에 깃든 건강한 정신 전파", Hobby: "러닝과 크로스핏", Motto: "포기하는 순간 시합은 끝나는 것이다", BucketList: "철인 3종 경기 완주", SelfPraise: "지치지 않는 체력의 소유자!", WishToHear: "선생님 수업이 제일 기다려져요", Greeting: "파이팅 넘치는 한 해 보냅시다!"},
		{ID: "3", Name: "테스트샘1", Group: "교무실팀", Food: "김치찌개", Dream: "모두가 즐거운 학교", Hobby: "독서", Motto: "성실하게 살자", BucketList: "책 100권 읽기", SelfPraise: "오늘도 수고했어", WishToHear: "항상 감사합니다", Greeting: "안녕하세요!"},
		{ID: "4", Name: "테스트샘2", Group: "교무실팀", Food: "파스타", Dream: "창의적인 교실", Hobby: "음악 감상", Motto: "즐겁게 일하기", BucketList: "악기 하나 배우기", SelfPraise: "넌 할 수 있어", WishToHear: "멋지세요", Greeting: "반갑습니다!"},
		{ID: "5", Name: "테스트샘3", Group: "교무실팀", Food: "초밥", Dream: "소통하는 교사", Hobby: "등산", Motto: "천천히 가도 괜찮아", BucketList: "한라산 등반", SelfPraise: "참 잘했어요", WishToHear: "믿음직스러워요", Greeting: "함께 잘 지내봐요!"},
		{ID: "6", Name: "테스트샘4", Group: "교무실팀", Food: "치킨", Dream: "성장하는 교사", Hobby: "사진 찍기", Motto: "매 순간에 최선을", BucketList: "개인 사진전 열기", SelfPraise: "넌 정말 특별해", WishToHear: "아이디어가 좋네요", Greeting: "잘 부탁드립니다!"},
	}
	for i := range fixtures {
		fixtures[i].CreatedAt = createdAt
		fixtures[i].IsFixture = true
	}
	return fixtures
}
