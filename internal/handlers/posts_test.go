// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kalem/internal/models"
)

func TestPostCreateAwardsXP(t *testing.T) {
	env := newTestEnv(t)
	u := env.mustCreateUser(t, "Yazar", "handler-post-create@test.local")

	body := `{"title":"Çağdaş Sanat Üzerine","content":"# Merhaba\n\nilk gönderim","category":"Sanat"}`
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	req = req.WithContext(ctxWithSession(req.Context(), testSession(u.ID, u.Email, "user")))
	rr := httptest.NewRecorder()
	env.Posts.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Post         models.Post    `json:"post"`
		EarnedBadges []models.Badge `json:"earnedBadges"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Turkish title transliterated into the slug.
	if resp.Post.Slug != "cagdas-sanat-uzerine" {
		t.Errorf("slug = %q, want cagdas-sanat-uzerine", resp.Post.Slug)
	}

	// First post earns the first_post badge alongside the XP.
	if len(resp.EarnedBadges) != 1 || resp.EarnedBadges[0].ID != "first_post" {
		t.Errorf("earnedBadges = %v, want first_post", resp.EarnedBadges)
	}

	author, err := env.Users.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if author.XP != xpPost || author.Stats.TotalPosts != 1 {
		t.Errorf("author xp/posts = %d/%d, want %d/1", author.XP, author.Stats.TotalPosts, xpPost)
	}
}

func TestPostCreateDuplicateTitle(t *testing.T) {
	env := newTestEnv(t)
	u := env.mustCreateUser(t, "Yazar", "handler-post-dup@test.local")

	body := `{"title":"Tekrarlanan Başlık","content":"ilk gönderi","category":"Bilim"}`
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	req = req.WithContext(ctxWithSession(req.Context(), testSession(u.ID, u.Email, "user")))
	rr := httptest.NewRecorder()
	env.Posts.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, body %s", rr.Code, rr.Body.String())
	}

	// Same title slugifies to the same slug, which is a validation
	// error rather than a server error.
	again := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	again = again.WithContext(ctxWithSession(again.Context(), testSession(u.ID, u.Email, "user")))
	againRR := httptest.NewRecorder()
	env.Posts.Create(againRR, again)

	if againRR.Code != http.StatusBadRequest {
		t.Fatalf("duplicate create status = %d, want 400; body %s", againRR.Code, againRR.Body.String())
	}
	if !strings.Contains(againRR.Body.String(), "Bu başlıkta bir gönderi zaten var") {
		t.Errorf("body = %s", againRR.Body.String())
	}
}

func TestPostCreateRejectsInvalidCategory(t *testing.T) {
	env := newTestEnv(t)
	u := env.mustCreateUser(t, "Yazar", "handler-post-badcat@test.local")

	body := `{"title":"Başlık","content":"içerik","category":"Müzik"}`
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	req = req.WithContext(ctxWithSession(req.Context(), testSession(u.ID, u.Email, "user")))
	rr := httptest.NewRecorder()
	env.Posts.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Geçersiz kategori") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestPostDetailIncrementsViewsAndRendersMarkdown(t *testing.T) {
	env := newTestEnv(t)
	u := env.mustCreateUser(t, "Yazar", "handler-post-detail@test.local")

	p, err := env.PostStore.Create(&models.Post{
		Title:    "Detay",
		Slug:     "handler-detail-post",
		Body:     "# Başlık\n\nparagraf",
		Category: models.CategoryTeknoloji,
		AuthorID: u.ID,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/posts/handler-detail-post", nil)
	req = withChiURLParam(req, "id", "handler-detail-post")
	rr := httptest.NewRecorder()
	env.Posts.Detail(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("detail status = %d", rr.Code)
	}

	var got models.Post
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Views != 1 {
		t.Errorf("views = %d, want 1 after first read", got.Views)
	}
	if !strings.Contains(got.BodyHTML, "<h1") {
		t.Errorf("body not rendered to HTML: %q", got.BodyHTML)
	}

	// Unknown slug is a Turkish 404.
	missing := httptest.NewRequest(http.MethodGet, "/api/posts/yok-boyle-bir-yazi", nil)
	missing = withChiURLParam(missing, "id", "yok-boyle-bir-yazi")
	missingRR := httptest.NewRecorder()
	env.Posts.Detail(missingRR, missing)
	if missingRR.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", missingRR.Code)
	}
	if !strings.Contains(missingRR.Body.String(), "Gönderi bulunamadı") {
		t.Errorf("missing body = %s", missingRR.Body.String())
	}

	_ = p
}

func TestToggleLikeGrantsAuthorXPAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "Yazar", "handler-like-author@test.local")
	fan := env.mustCreateUser(t, "Hayran", "handler-like-fan@test.local")

	p, err := env.PostStore.Create(&models.Post{
		Title:    "Beğeni",
		Slug:     "handler-like-post",
		Body:     "içerik",
		Category: models.CategorySpor,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/posts/"+p.ID.String()+"/like", nil)
	req = withChiURLParam(req, "id", p.ID.String())
	req = req.WithContext(ctxWithSession(req.Context(), testSession(fan.ID, fan.Email, "user")))
	rr := httptest.NewRecorder()
	env.Posts.ToggleLike(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("like status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Liked      bool `json:"liked"`
		LikesCount int  `json:"likesCount"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Liked || resp.LikesCount != 1 {
		t.Errorf("like = (%v, %d), want (true, 1)", resp.Liked, resp.LikesCount)
	}

	// XP goes to the post's author, tagged as a received like.
	got, err := env.Users.FindByID(author.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.XP != xpLike || got.Stats.TotalLikes != 1 {
		t.Errorf("author xp/likes = %d/%d, want %d/1", got.XP, got.Stats.TotalLikes, xpLike)
	}

	// The notification was queued; drain the worker to observe it.
	env.Notifier.Stop()
	_, total, _, err := env.Notifications.ListByRecipient(author.ID, 0, 10, false)
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if total != 1 {
		t.Errorf("author notifications = %d, want 1", total)
	}

	// Unlike does not award more XP and does not notify again.
	req2 := httptest.NewRequest(http.MethodPost, "/api/posts/"+p.ID.String()+"/like", nil)
	req2 = withChiURLParam(req2, "id", p.ID.String())
	req2 = req2.WithContext(ctxWithSession(req2.Context(), testSession(fan.ID, fan.Email, "user")))
	rr2 := httptest.NewRecorder()
	env.Posts.ToggleLike(rr2, req2)

	if err := json.Unmarshal(rr2.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Liked || resp.LikesCount != 0 {
		t.Errorf("unlike = (%v, %d), want (false, 0)", resp.Liked, resp.LikesCount)
	}

	got, _ = env.Users.FindByID(author.ID)
	if got.XP != xpLike {
		t.Errorf("author xp after unlike = %d, want unchanged %d", got.XP, xpLike)
	}
}

func TestAddCommentFlow(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "Yazar", "handler-comment-author@test.local")
	commenter := env.mustCreateUser(t, "Yorumcu", "handler-comment-user@test.local")

	p, err := env.PostStore.Create(&models.Post{
		Title:    "Yorum",
		Slug:     "handler-comment-post",
		Body:     "içerik",
		Category: models.CategoryBilim,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	body := `{"content":"çok güzel bir yazı"}`
	req := httptest.NewRequest(http.MethodPost, "/api/posts/"+p.ID.String()+"/comments", strings.NewReader(body))
	req = withChiURLParam(req, "id", p.ID.String())
	req = req.WithContext(ctxWithSession(req.Context(), testSession(commenter.ID, commenter.Email, "user")))
	rr := httptest.NewRecorder()
	env.Posts.AddComment(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("comment status = %d, body %s", rr.Code, rr.Body.String())
	}

	// Commenter earned comment XP.
	got, err := env.Users.FindByID(commenter.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.XP != xpComment || got.Stats.TotalComments != 1 {
		t.Errorf("commenter xp/comments = %d/%d, want %d/1", got.XP, got.Stats.TotalComments, xpComment)
	}

	// Over-length comments are rejected before touching the store.
	long := `{"content":"` + strings.Repeat("a", 1001) + `"}`
	badReq := httptest.NewRequest(http.MethodPost, "/api/posts/"+p.ID.String()+"/comments", strings.NewReader(long))
	badReq = withChiURLParam(badReq, "id", p.ID.String())
	badReq = badReq.WithContext(ctxWithSession(badReq.Context(), testSession(commenter.ID, commenter.Email, "user")))
	badRR := httptest.NewRecorder()
	env.Posts.AddComment(badRR, badReq)
	if badRR.Code != http.StatusBadRequest {
		t.Errorf("long comment status = %d, want 400", badRR.Code)
	}
}

func TestPostDeleteAuthorization(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "Yazar", "handler-del-author@test.local")
	stranger := env.mustCreateUser(t, "Yabancı", "handler-del-stranger@test.local")
	admin := env.mustCreateUser(t, "Yönetici", "handler-del-admin@test.local")

	newPost := func(slug string) *models.Post {
		p, err := env.PostStore.Create(&models.Post{
			Title:    "Silinecek",
			Slug:     slug,
			Body:     "içerik",
			Category: models.CategoryDiger,
			AuthorID: author.ID,
		})
		if err != nil {
			t.Fatalf("create post: %v", err)
		}
		return p
	}

	del := func(p *models.Post, sessUserID string, role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/posts/"+p.ID.String(), nil)
		req = withChiURLParam(req, "id", p.ID.String())
		switch sessUserID {
		case "author":
			req = req.WithContext(ctxWithSession(req.Context(), testSession(author.ID, author.Email, role)))
		case "stranger":
			req = req.WithContext(ctxWithSession(req.Context(), testSession(stranger.ID, stranger.Email, role)))
		case "admin":
			req = req.WithContext(ctxWithSession(req.Context(), testSession(admin.ID, admin.Email, role)))
		}
		rr := httptest.NewRecorder()
		env.Posts.Delete(rr, req)
		return rr
	}

	// A stranger cannot delete someone else's post.
	p1 := newPost("handler-del-1")
	if rr := del(p1, "stranger", "user"); rr.Code != http.StatusForbidden {
		t.Errorf("stranger delete status = %d, want 403", rr.Code)
	}

	// The author can.
	if rr := del(p1, "author", "user"); rr.Code != http.StatusOK {
		t.Errorf("author delete status = %d, want 200", rr.Code)
	}

	// An admin can delete anyone's post.
	p2 := newPost("handler-del-2")
	if rr := del(p2, "admin", "admin"); rr.Code != http.StatusOK {
		t.Errorf("admin delete status = %d, want 200", rr.Code)
	}

	// Deleting a vanished post is a 404.
	if rr := del(p2, "admin", "admin"); rr.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", rr.Code)
	}
}
