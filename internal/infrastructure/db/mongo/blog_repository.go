package mongo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

const collectionBlogs = "blogs"

type BlogRepository struct {
	col *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{col: db.Collection(collectionBlogs)}
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      string             `bson:"user"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type authorDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

type blogDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Image     string             `bson:"image"`
	Category  string             `bson:"category"`
	Author    primitive.ObjectID `bson:"author"`
	Likes     []string           `bson:"likes"`
	Comments  []commentDocument  `bson:"comments"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`

	// populated by $lookup, never stored
	AuthorInfo     []authorDocument `bson:"author_info,omitempty"`
	CommentAuthors []authorDocument `bson:"comment_authors,omitempty"`
}

func (a authorDocument) toDomain() *domain.AuthorSummary {
	return &domain.AuthorSummary{ID: a.ID.Hex(), Name: a.Name, Email: a.Email}
}

func (c commentDocument) toDomain() domain.Comment {
	return domain.Comment{
		ID:        c.ID.Hex(),
		UserID:    c.User,
		Text:      c.Text,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func (d *blogDocument) toDomain() *domain.Blog {
	b := &domain.Blog{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Image:     d.Image,
		Category:  d.Category,
		AuthorID:  d.Author.Hex(),
		Likes:     d.Likes,
		Comments:  make([]domain.Comment, 0, len(d.Comments)),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if b.Likes == nil {
		b.Likes = []string{}
	}
	commenters := make(map[string]authorDocument, len(d.CommentAuthors))
	for _, a := range d.CommentAuthors {
		commenters[a.ID.Hex()] = a
	}
	for _, c := range d.Comments {
		comment := c.toDomain()
		if a, ok := commenters[c.User]; ok {
			comment.User = a.toDomain()
		}
		b.Comments = append(b.Comments, comment)
	}
	if len(d.AuthorInfo) > 0 {
		b.Author = d.AuthorInfo[0].toDomain()
	}
	return b
}

func blogID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrBlogNotFound
	}
	return oid, nil
}

func commentID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrCommentNotFound
	}
	return oid, nil
}

// withAuthor appends the blog author and commenter lookups to a pipeline.
// Comment user ids are stored as hex strings and converted for the join;
// unparseable ids simply match nothing.
func withAuthor(stages ...bson.D) mongo.Pipeline {
	commenterIDs := bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$comments", bson.A{}}}}},
		{Key: "as", Value: "c"},
		{Key: "in", Value: bson.D{{Key: "$convert", Value: bson.D{
			{Key: "input", Value: "$$c.user"},
			{Key: "to", Value: "objectId"},
			{Key: "onError", Value: nil},
			{Key: "onNull", Value: nil},
		}}}},
	}}}

	return append(mongo.Pipeline(stages),
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author_info"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "let", Value: bson.D{{Key: "ids", Value: commenterIDs}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$in", Value: bson.A{"$_id", "$$ids"}},
				}}}}},
				{{Key: "$project", Value: bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}}}},
			}},
			{Key: "as", Value: "comment_authors"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "author_info.password_hash", Value: 0},
			{Key: "author_info.token_version", Value: 0},
		}}},
	)
}

func (r *BlogRepository) Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	author, err := primitive.ObjectIDFromHex(blog.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("%w: author id", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := blogDocument{
		ID:        primitive.NewObjectID(),
		Title:     blog.Title,
		Content:   blog.Content,
		Image:     blog.Image,
		Category:  blog.Category,
		Author:    author,
		Likes:     []string{},
		Comments:  []commentDocument{},
		CreatedAt: blog.CreatedAt,
		UpdatedAt: blog.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert blog: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id string) (*domain.Blog, error) {
	oid, err := blogID(id)
	if err != nil {
		return nil, err
	}

	blogs, err := r.aggregate(ctx, withAuthor(bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: oid}}}}))
	if err != nil {
		return nil, err
	}
	if len(blogs) == 0 {
		return nil, domain.ErrBlogNotFound
	}
	return blogs[0], nil
}

func (r *BlogRepository) List(ctx context.Context) ([]*domain.Blog, error) {
	return r.aggregate(ctx, withAuthor(bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}}))
}

func (r *BlogRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate blogs: %w", err)
	}
	var docs []blogDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}

	out := make([]*domain.Blog, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *BlogRepository) Update(ctx context.Context, id string, patch domain.BlogPatch) (*domain.Blog, error) {
	oid, err := blogID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(updateCtx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrBlogNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	oid, err := blogID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBlogNotFound
	}
	return nil
}

// Categories groups blog ids by category, most populated first.
func (r *BlogRepository) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "blog_ids", Value: bson.D{{Key: "$push", Value: "$_id"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}

	var rows []struct {
		Category string               `bson:"_id"`
		Count    int                  `bson:"count"`
		BlogIDs  []primitive.ObjectID `bson:"blog_ids"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	out := make([]domain.CategorySummary, 0, len(rows))
	for _, row := range rows {
		ids := make([]string, 0, len(row.BlogIDs))
		for _, oid := range row.BlogIDs {
			ids = append(ids, oid.Hex())
		}
		out = append(out, domain.CategorySummary{Category: row.Category, Count: row.Count, BlogIDs: ids})
	}
	return out, nil
}

// ToggleLike flips membership of userID in the likes array with a single
// pipeline update, so concurrent toggles by different users never overwrite
// each other.
func (r *BlogRepository) ToggleLike(ctx context.Context, id, userID string) (domain.LikeResult, error) {
	oid, err := blogID(id)
	if err != nil {
		return domain.LikeResult{}, err
	}

	likes := bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}}}
	user := bson.D{{Key: "$literal", Value: userID}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{user, likes}}}},
			{Key: "then", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: likes},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", user}}}},
			}}}},
			{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{likes, bson.A{user}}}}},
		}}}}}}},
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Likes []string `bson:"likes"`
	}
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"likes": 1}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.LikeResult{}, domain.ErrBlogNotFound
		}
		return domain.LikeResult{}, fmt.Errorf("toggle like: %w", err)
	}

	return domain.LikeResult{Liked: slices.Contains(doc.Likes, userID), Likes: len(doc.Likes)}, nil
}

func (r *BlogRepository) AddComment(ctx context.Context, id string, comment domain.Comment) (*domain.Comment, error) {
	oid, err := blogID(id)
	if err != nil {
		return nil, err
	}

	doc := commentDocument{
		ID:        primitive.NewObjectID(),
		User:      comment.UserID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": doc}},
	)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrBlogNotFound
	}

	created := doc.toDomain()
	return &created, nil
}

func (r *BlogRepository) UpdateComment(ctx context.Context, id, cid, text string, at time.Time) (*domain.Comment, error) {
	oid, err := blogID(id)
	if err != nil {
		return nil, err
	}
	coid, err := commentID(cid)
	if err != nil {
		return nil, err
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc blogDocument
	err = r.col.FindOneAndUpdate(updateCtx,
		bson.M{"_id": oid, "comments._id": coid},
		bson.M{"$set": bson.M{"comments.$.text": text, "comments.$.updated_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.missing(ctx, oid)
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}

	for _, c := range doc.Comments {
		if c.ID == coid {
			updated := c.toDomain()
			return &updated, nil
		}
	}
	return nil, domain.ErrCommentNotFound
}

func (r *BlogRepository) DeleteComment(ctx context.Context, id, cid string) error {
	oid, err := blogID(id)
	if err != nil {
		return err
	}
	coid, err := commentID(cid)
	if err != nil {
		return err
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(updateCtx,
		bson.M{"_id": oid, "comments._id": coid},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": coid}}},
	)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missing(ctx, oid)
	}
	return nil
}

// missing tells a missing blog apart from a missing comment after a
// comment-scoped filter matched nothing.
func (r *BlogRepository) missing(ctx context.Context, oid primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count blog: %w", err)
	}
	if n == 0 {
		return domain.ErrBlogNotFound
	}
	return domain.ErrCommentNotFound
}

// EnsureIndexes creates the lookup indexes for blogs.
func (r *BlogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
