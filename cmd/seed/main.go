package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hoyyChoi/yeonseubpun/internal/model"
	"github.com/hoyyChoi/yeonseubpun/internal/repository"
)

func main() {
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "yeonseubpun"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewQuestionRepo(client.Database(dbName))

	for _, q := range catalog() {
		if err := repo.Upsert(ctx, q); err != nil {
			log.Fatalf("Failed to seed question %s: %v", q.ID, err)
		}
		fmt.Printf("seeded %s (%s)\n", q.ID, q.Title)
	}

	fmt.Println("Done.")
}

func catalog() []*model.Question {
	return []*model.Question{
		{
			ID:           "react-001",
			Category:     "react",
			Title:        "React Hook의 동작 원리",
			Prompt:       "React Hook이 어떤 원리로 동작하는지, 클래스 컴포넌트의 생명주기 메서드와 비교해 설명해주세요.",
			Difficulty:   model.DifficultyMedium,
			Tags:         []string{"hooks", "useState", "useEffect"},
			ExpectedTime: "15분",
		},
		{
			ID:           "react-002",
			Category:     "react",
			Title:        "Virtual DOM",
			Prompt:       "Virtual DOM이 무엇이고, 실제 DOM과 비교해 어떤 장점이 있는지 설명해주세요.",
			Difficulty:   model.DifficultyEasy,
			Tags:         []string{"virtual-dom", "rendering"},
			ExpectedTime: "10분",
		},
		{
			ID:           "react-003",
			Category:     "react",
			Title:        "Context API vs Redux",
			Prompt:       "상태 관리 도구로서 Context API와 Redux를 비교하고, 각각 어떤 상황에 적합한지 설명해주세요.",
			Difficulty:   model.DifficultyHard,
			Tags:         []string{"state-management", "context", "redux"},
			ExpectedTime: "25분",
		},
		{
			ID:           "ts-001",
			Category:     "typescript",
			Title:        "제네릭(Generics)",
			Prompt:       "TypeScript 제네릭의 개념과 실무에서 제네릭을 활용하는 예시를 설명해주세요.",
			Difficulty:   model.DifficultyMedium,
			Tags:         []string{"generics", "type-safety"},
			ExpectedTime: "15분",
		},
		{
			ID:           "ts-002",
			Category:     "typescript",
			Title:        "Union vs Intersection 타입",
			Prompt:       "Union 타입과 Intersection 타입의 차이를 예시와 함께 설명해주세요.",
			Difficulty:   model.DifficultyHard,
			Tags:         []string{"union", "intersection", "types"},
			ExpectedTime: "20분",
		},
		{
			ID:           "fe-001",
			Category:     "frontend",
			Title:        "Flexbox vs Grid",
			Prompt:       "CSS Flexbox와 Grid 레이아웃의 차이점과 각각 어떤 레이아웃에 적합한지 설명해주세요.",
			Difficulty:   model.DifficultyEasy,
			Tags:         []string{"css", "layout"},
			ExpectedTime: "10분",
		},
		{
			ID:           "fe-002",
			Category:     "frontend",
			Title:        "브라우저 렌더링 과정",
			Prompt:       "브라우저가 HTML과 CSS를 받아 화면에 그리기까지의 렌더링 과정을 단계별로 설명해주세요.",
			Difficulty:   model.DifficultyMedium,
			Tags:         []string{"rendering", "critical-path"},
			ExpectedTime: "15분",
		},
		{
			ID:           "fe-003",
			Category:     "frontend",
			Title:        "SPA vs MPA",
			Prompt:       "SPA와 MPA의 차이점, 그리고 각각의 장단점을 설명해주세요.",
			Difficulty:   model.DifficultyMedium,
			Tags:         []string{"spa", "mpa", "architecture"},
			ExpectedTime: "15분",
		},
		{
			ID:           "be-001",
			Category:     "backend",
			Title:        "RESTful API 설계",
			Prompt:       "RESTful API의 설계 원칙과 좋은 API를 만들기 위해 고려해야 할 점을 설명해주세요.",
			Difficulty:   model.DifficultyMedium,
			Tags:         []string{"rest", "api-design"},
			ExpectedTime: "15분",
		},
		{
			ID:           "be-002",
			Category:     "backend",
			Title:        "데이터베이스 정규화",
			Prompt:       "데이터베이스 정규화의 개념과 각 정규형의 특징, 그리고 비정규화가 필요한 경우를 설명해주세요.",
			Difficulty:   model.DifficultyHard,
			Tags:         []string{"database", "normalization"},
			ExpectedTime: "20분",
		},
		{
			ID:           "js-001",
			Category:     "javascript",
			Title:        "클로저(Closure)",
			Prompt:       "클로저의 개념과 실용적인 사용 예시를 설명해주세요.",
			Difficulty:   model.DifficultyMedium,
			Tags:         []string{"closure", "scope"},
			ExpectedTime: "15분",
		},
		{
			ID:           "js-002",
			Category:     "javascript",
			Title:        "호이스팅과 TDZ",
			Prompt:       "호이스팅이 무엇인지, 그리고 let과 const의 TDZ(Temporal Dead Zone)와 어떤 관련이 있는지 설명해주세요.",
			Difficulty:   model.DifficultyHard,
			Tags:         []string{"hoisting", "tdz", "scope"},
			ExpectedTime: "20분",
		},
		{
			ID:           "js-003",
			Category:     "javascript",
			Title:        "Promise와 async/await",
			Prompt:       "Promise의 동작 방식과 async/await 문법이 해결하는 문제를 설명해주세요.",
			Difficulty:   model.DifficultyMedium,
			Tags:         []string{"promise", "async-await", "event-loop"},
			ExpectedTime: "15분",
		},
	}
}
