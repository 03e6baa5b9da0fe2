package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"elearn-system/internal/models"
)

const entityTTL = 24 * time.Hour

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetCourse(course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}

	key := "course:" + course.UUID
	return c.client.Set(c.ctx, key, data, entityTTL).Err()
}

func (c *RedisCache) GetCourse(uuid string) (*models.Course, error) {
	key := "course:" + uuid
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var course models.Course
	err = json.Unmarshal(data, &course)
	return &course, err
}

func (c *RedisCache) DeleteCourse(uuid string) error {
	return c.client.Del(c.ctx, "course:"+uuid).Err()
}

func (c *RedisCache) SetQuiz(quiz *models.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}

	key := "quiz:" + quiz.UUID
	return c.client.Set(c.ctx, key, data, entityTTL).Err()
}

func (c *RedisCache) GetQuiz(uuid string) (*models.Quiz, error) {
	key := "quiz:" + uuid
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var quiz models.Quiz
	err = json.Unmarshal(data, &quiz)
	return &quiz, err
}

func (c *RedisCache) DeleteQuiz(uuid string) error {
	return c.client.Del(c.ctx, "quiz:"+uuid).Err()
}
